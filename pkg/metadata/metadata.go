// Package metadata defines the key/value view of an image's embedded metadata.
//
// Keys use exiftool's "Group:Tag" naming. Values are raw (not print-converted)
// strings, such as "6" for an orientation or "2021:03:15 08:30:22" for a date.
package metadata

const (
	// OrientationKey is EXIF tag 0x0112 in IFD0.
	OrientationKey = "IFD0:Orientation"
	// DateTimeKey is EXIF tag 0x0132 (DateTime) in IFD0, which exiftool calls ModifyDate.
	DateTimeKey = "IFD0:ModifyDate"

	// DateTimeFormat is the EXIF date/time layout.
	DateTimeFormat = "2006:01:02 15:04:05"
)

// Fields is the metadata of one image. Set only stages a value; Flush persists staged values.
type Fields interface {
	Get(key string) (string, bool)
	Contains(key string) bool
	Set(key string, value string)
	Flush() error
}

// Store opens the embedded metadata of image files.
type Store interface {
	Open(path string) (Fields, error)
}
