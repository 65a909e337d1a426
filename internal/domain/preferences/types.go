package preferences

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/RedBear961/qrcreator/pkg/codegen"
)

// Parameter identifies a single setting.
type Parameter int

const (
	ParamLiveGeneration Parameter = iota
	ParamResolution
	ParamCodeStyle
	ParamQRCodeLevel
)

// Key is the storage key of the parameter.
func (p Parameter) Key() string {
	switch p {
	case ParamLiveGeneration:
		return "isLiveGeneration"
	case ParamResolution:
		return "resolution"
	case ParamCodeStyle:
		return "codeStyle"
	case ParamQRCodeLevel:
		return "qrCodeLevel"
	default:
		return fmt.Sprintf("parameter(%d)", int(p))
	}
}

func (p Parameter) String() string {
	return p.Key()
}

// CodeStyle is the color scheme of generated codes.
type CodeStyle uint

const (
	StyleWhite CodeStyle = iota
	StyleBlack
)

func (s CodeStyle) String() string {
	switch s {
	case StyleWhite:
		return "white"
	case StyleBlack:
		return "black"
	default:
		return fmt.Sprintf("style(%d)", uint(s))
	}
}

func (s CodeStyle) valid() bool {
	return s == StyleWhite || s == StyleBlack
}

// encode stores the style as its raw number.
func (s CodeStyle) encode() string {
	return strconv.FormatUint(uint64(s), 10)
}

func decodeCodeStyle(raw string) (CodeStyle, error) {
	v, err := strconv.ParseUint(raw, 10, 8)
	if err != nil {
		return 0, err
	}
	s := CodeStyle(v)
	if !s.valid() {
		return 0, fmt.Errorf("unknown code style %d", v)
	}
	return s, nil
}

// ParseCodeStyle parses "white" or "black".
func ParseCodeStyle(s string) (CodeStyle, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "white":
		return StyleWhite, nil
	case "black":
		return StyleBlack, nil
	default:
		return 0, fmt.Errorf("unknown code style %q", s)
	}
}

// Palette maps the style to generator colors: the foreground follows the
// style and the background is always transparent.
func (s CodeStyle) Palette() codegen.Palette {
	fg := codegen.White
	if s == StyleBlack {
		fg = codegen.Black
	}
	return codegen.Palette{Foreground: fg, Background: codegen.Clear}
}

func (s CodeStyle) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *CodeStyle) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v, err := ParseCodeStyle(raw)
	if err != nil {
		return err
	}
	*s = v
	return nil
}
