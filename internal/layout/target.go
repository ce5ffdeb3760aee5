package layout

// Target describes the C data model the generated code is compiled for.
type Target struct {
	Triple   string // e.g. "x86_64-linux-gnu"
	PtrSize  int    // bytes
	PtrAlign int    // bytes
	LongSize int    // bytes; 8 on LP64, 4 on LLP64
}

// X86_64LinuxGNU is the LP64 default.
func X86_64LinuxGNU() Target {
	return Target{
		Triple:   "x86_64-linux-gnu",
		PtrSize:  8,
		PtrAlign: 8,
		LongSize: 8,
	}
}

// X86_64WindowsMSVC is the LLP64 data model.
func X86_64WindowsMSVC() Target {
	return Target{
		Triple:   "x86_64-windows-msvc",
		PtrSize:  8,
		PtrAlign: 8,
		LongSize: 4,
	}
}

// IsZero reports an unset target.
func (t Target) IsZero() bool {
	return t.PtrSize == 0
}
