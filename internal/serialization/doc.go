// Package serialization reads and writes convcast checkpoint files.
//
// A checkpoint holds a model's state dictionary plus a JSON header:
//
//	Format Structure:
//	  [4 bytes: Magic "CNVC"]
//	  [4 bytes: Version (uint32 LE)]
//	  [4 bytes: Flags (uint32 LE)]
//	  [8 bytes: Header Size (uint64 LE)]
//	  [Header: JSON metadata]
//	  [32 bytes: SHA-256 of the uncompressed tensor data]
//	  [8 bytes: Payload Size (uint64 LE)]
//	  [Payload: tensor data, zstd-compressed when FlagCompressed is set]
//
// Tensors are stored as little-endian float32 in the order of Header.Tensors,
// which the writer sorts by name so the same state dictionary always produces
// the same bytes.
//
// Example usage:
//
//	err := serialization.SaveFile("model.cnvc", model.StateDict(), serialization.Header{
//	    ModelType: "ConvForecaster",
//	}, serialization.WithCompression(zstd.SpeedDefault))
//
//	ckpt, err := serialization.LoadFile("model.cnvc")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = model.LoadStateDict(ckpt.StateDict)
package serialization
