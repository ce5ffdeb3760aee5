package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка - на первое время
	UnknownCode Code = 0

	// Генерация C
	CGInfo                Code = 1000
	CGForeignArgNotString Code = 1001
	CGForeignUnknownArg   Code = 1002
	CGUnresolvedName      Code = 1003
	CGUnknownIntrinsic    Code = 1004
	CGMalformedModel      Code = 1005

	// Ввод/вывод
	IOInfo            Code = 4000
	IOLoadFileError   Code = 4001
	IOSnapshotFormat  Code = 4002
	IOSnapshotVersion Code = 4003
	IOWriteFileError  Code = 4004

	// Проект
	ProjInfo             Code = 5000
	ProjManifestInvalid  Code = 5001
	ProjUnitMissingInput Code = 5002
	ProjDuplicateOutput  Code = 5003
)

var (
	codeDescription = map[Code]string{
		UnknownCode:           "Unknown error",
		CGInfo:                "Code generation information",
		CGForeignArgNotString: "#foreign argument must be a string",
		CGForeignUnknownArg:   "Unknown #foreign named argument",
		CGUnresolvedName:      "Unresolved name reached code generation",
		CGUnknownIntrinsic:    "Call to unimplemented intrinsic",
		CGMalformedModel:      "Malformed program model",
		IOInfo:                "I/O information",
		IOLoadFileError:       "Failed to load file",
		IOSnapshotFormat:      "Malformed program snapshot",
		IOSnapshotVersion:     "Unsupported program snapshot version",
		IOWriteFileError:      "Failed to write file",
		ProjInfo:              "Project information",
		ProjManifestInvalid:   "Invalid ionc.toml",
		ProjUnitMissingInput:  "Unit has no input snapshot",
		ProjDuplicateOutput:   "Two units write the same output",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("CG%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
