package log

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type fieldKind uint8

const (
	kindString fieldKind = iota
	kindInt
	kindUint
	kindHex8
	kindHex16
	kindError
	kindDuration
	kindStringer
	kindBlob
)

type field struct {
	kind fieldKind
	key  string
	str  string
	num  uint64
	err  error
	any  any
}

func (f *field) value() string {
	switch f.kind {
	case kindString:
		return f.str
	case kindInt:
		return strconv.FormatInt(int64(f.num), 10)
	case kindUint:
		return strconv.FormatUint(f.num, 10)
	case kindHex8:
		return fmt.Sprintf("$%02X", f.num)
	case kindHex16:
		return fmt.Sprintf("$%04X", f.num)
	case kindError:
		if f.err == nil {
			return "<nil>"
		}
		return f.err.Error()
	case kindDuration:
		return time.Duration(f.num).String()
	case kindStringer:
		return f.any.(fmt.Stringer).String()
	case kindBlob:
		var sb strings.Builder
		for i, b := range f.any.([]byte) {
			if i > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "$%02X", b)
		}
		return sb.String()
	}
	return ""
}
