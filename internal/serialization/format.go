package serialization

import "time"

// Format constants.
const (
	MagicBytes    = "CNVC"
	FormatVersion = 1
	ChecksumSize  = 32
)

// Flags for the checkpoint format.
const (
	FlagCompressed  uint32 = 1 << 0 // payload is zstd-compressed
	FlagHasTraining uint32 = 1 << 1 // header carries TrainingMeta
	FlagHasMetadata uint32 = 1 << 2 // header carries custom metadata
)

// Header is the JSON header of a checkpoint.
type Header struct {
	FormatVersion int               `json:"format_version"`
	Version       string            `json:"convcast_version"`
	ModelType     string            `json:"model_type"`
	CreatedAt     time.Time         `json:"created_at"`
	Tensors       []TensorMeta      `json:"tensors"`
	Metadata      map[string]string `json:"metadata,omitempty"`
	Training      *TrainingMeta     `json:"training,omitempty"`
}

// TrainingMeta records the state of training when the checkpoint was taken.
type TrainingMeta struct {
	Epoch           int                `json:"epoch"`
	Step            int64              `json:"step"`
	Loss            float64            `json:"loss"`
	ValidationLoss  float64            `json:"validation_loss,omitempty"`
	Optimizer       string             `json:"optimizer"`
	OptimizerConfig map[string]float64 `json:"optimizer_config,omitempty"`
}

// TensorMeta describes one tensor in the data section.
type TensorMeta struct {
	Name   string `json:"name"`   // e.g. "0.weight"
	DType  string `json:"dtype"`  // always "float32"
	Shape  []int  `json:"shape"`  // row-major dimensions
	Offset int64  `json:"offset"` // bytes from the start of the uncompressed data
	Size   int64  `json:"size"`   // bytes
}
