package format

import (
	"errors"
	"fmt"
)

type Format int

const (
	JSONFormat Format = iota
	YAMLFormat
	XMLFormat
	EnvFormat
	FlagsFormat
)

var ErrBadFormat = errors.New("bad format")

func ParseFormat(v string) (Format, error) {
	f, ok := map[string]Format{
		"j":     JSONFormat,
		"json":  JSONFormat,
		"y":     YAMLFormat,
		"yaml":  YAMLFormat,
		"yml":   YAMLFormat,
		"x":     XMLFormat,
		"xml":   XMLFormat,
		"e":     EnvFormat,
		"env":   EnvFormat,
		"f":     FlagsFormat,
		"flags": FlagsFormat,
	}[v]
	if ok {
		return f, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrBadFormat, v)
}

func (f Format) String() string {
	d, err := f.MarshalText()
	if err != nil {
		return err.Error()
	}
	return string(d)
}

func (f Format) MarshalText() ([]byte, error) {
	switch f {
	case JSONFormat:
		return []byte("json"), nil
	case YAMLFormat:
		return []byte("yaml"), nil
	case XMLFormat:
		return []byte("xml"), nil
	case EnvFormat:
		return []byte("env"), nil
	case FlagsFormat:
		return []byte("flags"), nil
	default:
		return nil, fmt.Errorf("<err: %d is not a format>", f)
	}
}

func (f *Format) UnmarshalText(d []byte) error {
	pf, err := ParseFormat(string(d))
	if err != nil {
		return err
	}
	*f = pf
	return nil
}

func (f Format) IsJSON() bool  { return f == JSONFormat }
func (f Format) IsYAML() bool  { return f == YAMLFormat }
func (f Format) IsXML() bool   { return f == XMLFormat }
func (f Format) IsEnv() bool   { return f == EnvFormat }
func (f Format) IsFlags() bool { return f == FlagsFormat }

// Suffix returns the file extension for this format (including the
// dot), or "" for formats that have no file representation.
func (f Format) Suffix() string {
	switch f {
	case JSONFormat:
		return ".json"
	case YAMLFormat:
		return ".yaml"
	case XMLFormat:
		return ".xml"
	case EnvFormat:
		return ".env"
	default:
		return ""
	}
}

// FromSuffix infers the format from a file extension (with or without
// the leading dot).
func FromSuffix(ext string) (Format, error) {
	if len(ext) > 0 && ext[0] == '.' {
		ext = ext[1:]
	}
	return ParseFormat(ext)
}

// AllFormats returns all supported formats in preference order.
func AllFormats() []Format {
	return []Format{JSONFormat, YAMLFormat, XMLFormat, EnvFormat, FlagsFormat}
}
