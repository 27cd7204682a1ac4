// Package catalog defines the dataset capability contract and the registry
// of named data artifacts a pipeline run reads from and writes to.
//
// A DataCatalog maps artifact names to Dataset implementations. The core
// ships two in-memory variants, MemoryDataset and LambdaDataset; file-backed
// adapters live in the datasets package and are injected by the caller.
package catalog
