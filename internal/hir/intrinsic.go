package hir

import "fmt"

// Intrinsic is the closed set of runtime operations that need type
// arguments synthesized at emission time. It is bound upstream while
// resolving the callee.
type Intrinsic uint8

const (
	IntrinsicNone Intrinsic = iota

	// varargs
	IntrinsicVaCopy
	IntrinsicVaStart
	IntrinsicVaEnd
	IntrinsicVaArg

	// dynamic arrays and maps
	IntrinsicApush
	IntrinsicAputv
	IntrinsicAdelv
	IntrinsicAgetvi
	IntrinsicAgetvp
	IntrinsicAgetv
	IntrinsicAsetcap
	IntrinsicAfit
	IntrinsicAcat
	IntrinsicAdeli
	IntrinsicAindexv
	IntrinsicAsetlen
	IntrinsicAdefault
	IntrinsicAfill
	IntrinsicAcatn
	IntrinsicAdeln
	IntrinsicAindex
	IntrinsicAgeti
	IntrinsicAdel
	IntrinsicAgetp
	IntrinsicAget
	IntrinsicAput
	IntrinsicAhdrsize
	IntrinsicAhdralign
	IntrinsicAhdr
	IntrinsicAlen
	IntrinsicAcap
	IntrinsicAfree
	IntrinsicAclear
	IntrinsicApop
	IntrinsicAnew

	intrinsicCount
)

var intrinsicNames = [...]string{
	IntrinsicNone:      "",
	IntrinsicVaCopy:    "va_copy",
	IntrinsicVaStart:   "va_start",
	IntrinsicVaEnd:     "va_end",
	IntrinsicVaArg:     "va_arg",
	IntrinsicApush:     "apush",
	IntrinsicAputv:     "aputv",
	IntrinsicAdelv:     "adelv",
	IntrinsicAgetvi:    "agetvi",
	IntrinsicAgetvp:    "agetvp",
	IntrinsicAgetv:     "agetv",
	IntrinsicAsetcap:   "asetcap",
	IntrinsicAfit:      "afit",
	IntrinsicAcat:      "acat",
	IntrinsicAdeli:     "adeli",
	IntrinsicAindexv:   "aindexv",
	IntrinsicAsetlen:   "asetlen",
	IntrinsicAdefault:  "adefault",
	IntrinsicAfill:     "afill",
	IntrinsicAcatn:     "acatn",
	IntrinsicAdeln:     "adeln",
	IntrinsicAindex:    "aindex",
	IntrinsicAgeti:     "ageti",
	IntrinsicAdel:      "adel",
	IntrinsicAgetp:     "agetp",
	IntrinsicAget:      "aget",
	IntrinsicAput:      "aput",
	IntrinsicAhdrsize:  "ahdrsize",
	IntrinsicAhdralign: "ahdralign",
	IntrinsicAhdr:      "ahdr",
	IntrinsicAlen:      "alen",
	IntrinsicAcap:      "acap",
	IntrinsicAfree:     "afree",
	IntrinsicAclear:    "aclear",
	IntrinsicApop:      "apop",
	IntrinsicAnew:      "anew",
}

// String returns the runtime spelling of the intrinsic.
func (in Intrinsic) String() string {
	if in < intrinsicCount {
		return intrinsicNames[in]
	}
	return fmt.Sprintf("intrinsic#%d", in)
}

// IsKnown reports intrinsics this generator can emit.
func (in Intrinsic) IsKnown() bool {
	return in > IntrinsicNone && in < intrinsicCount
}

// LookupIntrinsic maps a runtime name to its tag.
func LookupIntrinsic(name string) (Intrinsic, bool) {
	for i := IntrinsicNone + 1; i < intrinsicCount; i++ {
		if intrinsicNames[i] == name {
			return i, true
		}
	}
	return IntrinsicNone, false
}
