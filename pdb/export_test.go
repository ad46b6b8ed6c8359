package pdb

// Export some internal functions for testing

type FileFmt = fileFmt

const (
	OldFmt   = oldFmt
	MmcifFmt = mmcifFmt
	UnkFmt   = unkFmt
)

var OldOrMmcif = oldOrMmcif
