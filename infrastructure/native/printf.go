package native

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/reglet-dev/retrohost/abi"
)

// maxLogArgs is the number of variadic integer arguments the log callback
// receives. Floating point arguments travel in vector registers and cannot
// be recovered; their conversions are printed verbatim.
const maxLogArgs = 8

// formatC renders a C printf format. next supplies the variadic arguments
// as raw machine words; strings are read through cstr.
func formatC(format string, next func() uintptr, cstr func(uintptr) string) string {
	var b strings.Builder
	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' {
			b.WriteByte(c)
			continue
		}
		start := i
		i++
		if i >= len(format) {
			b.WriteByte('%')
			break
		}
		if format[i] == '%' {
			b.WriteByte('%')
			continue
		}

		var spec strings.Builder
		spec.WriteByte('%')
		for i < len(format) && strings.IndexByte("-+ #0", format[i]) >= 0 {
			spec.WriteByte(format[i])
			i++
		}
		i = scanCount(format, i, &spec, next)
		if i < len(format) && format[i] == '.' {
			spec.WriteByte('.')
			i = scanCount(format, i+1, &spec, next)
		}
		wide := false
		for i < len(format) && strings.IndexByte("hlLqjzt", format[i]) >= 0 {
			if strings.IndexByte("lLqjzt", format[i]) >= 0 {
				wide = true
			}
			i++
		}
		if i >= len(format) {
			b.WriteString(format[start:])
			break
		}

		verb := format[i]
		switch verb {
		case 'd', 'i':
			spec.WriteByte('d')
			fmt.Fprintf(&b, spec.String(), signed(next(), wide))
		case 'u':
			spec.WriteByte('d')
			fmt.Fprintf(&b, spec.String(), unsigned(next(), wide))
		case 'x', 'X', 'o':
			spec.WriteByte(verb)
			fmt.Fprintf(&b, spec.String(), unsigned(next(), wide))
		case 'c':
			spec.WriteByte('c')
			fmt.Fprintf(&b, spec.String(), rune(byte(next())))
		case 's':
			spec.WriteByte('s')
			fmt.Fprintf(&b, spec.String(), cstr(next()))
		case 'p':
			b.WriteString("0x")
			b.WriteString(strconv.FormatUint(uint64(next()), 16))
		default:
			b.WriteString(format[start : i+1])
		}
	}
	return b.String()
}

// scanCount copies a width or precision, resolving '*' from the arguments.
func scanCount(format string, i int, spec *strings.Builder, next func() uintptr) int {
	if i < len(format) && format[i] == '*' {
		spec.WriteString(strconv.Itoa(int(int32(next()))))
		return i + 1
	}
	for i < len(format) && format[i] >= '0' && format[i] <= '9' {
		spec.WriteByte(format[i])
		i++
	}
	return i
}

func signed(v uintptr, wide bool) int64 {
	if wide {
		return int64(v)
	}
	return int64(int32(v))
}

func unsigned(v uintptr, wide bool) uint64 {
	if wide {
		return uint64(v)
	}
	return uint64(uint32(v))
}

// argList returns a next function over args that yields zero once exhausted.
func argList(args ...uintptr) func() uintptr {
	return func() uintptr {
		if len(args) == 0 {
			return 0
		}
		v := args[0]
		args = args[1:]
		return v
	}
}

func goString(addr uintptr) string {
	if addr == 0 {
		return "(null)"
	}
	return abi.GoString(cString(addr))
}
