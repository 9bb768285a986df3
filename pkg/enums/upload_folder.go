package enums

import "fmt"

// UploadFolder names a public folder of the blob store.
type UploadFolder string

const (
	UploadFolderVisuals UploadFolder = "visuals"
	UploadFolderLogos   UploadFolder = "logos"
	UploadFolderQRCodes UploadFolder = "qrcodes"
)

var validUploadFolders = []UploadFolder{
	UploadFolderVisuals,
	UploadFolderLogos,
	UploadFolderQRCodes,
}

// String implements fmt.Stringer.
func (f UploadFolder) String() string {
	return string(f)
}

// IsValid reports whether the folder is served publicly.
func (f UploadFolder) IsValid() bool {
	for _, candidate := range validUploadFolders {
		if candidate == f {
			return true
		}
	}
	return false
}

// ParseUploadFolder converts raw input into UploadFolder.
func ParseUploadFolder(value string) (UploadFolder, error) {
	for _, candidate := range validUploadFolders {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid upload folder %q", value)
}
