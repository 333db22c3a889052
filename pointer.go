package gobound

import (
	"fmt"
	"strconv"
	"strings"
)

// Paths in errors are RFC 6901 JSON Pointers. The root is "/".

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

func joinPointer(base, token string) string {
	return base + "/" + pointerEscaper.Replace(token)
}

func indexPointer(base string, i int) string {
	return base + "/" + strconv.Itoa(i)
}

// keyPointer names a map entry by its key. Non-text keys use their printed form.
func keyPointer(base string, key any) string {
	switch k := key.(type) {
	case string:
		return joinPointer(base, k)
	case Value:
		if k.kind == KindText {
			return joinPointer(base, k.text.String())
		}
		if k.kind == KindScalar {
			return joinPointer(base, fmt.Sprint(k.scalar))
		}
		return joinPointer(base, k.String())
	case *String:
		return joinPointer(base, k.String())
	case []byte:
		return joinPointer(base, string(k))
	default:
		return joinPointer(base, fmt.Sprint(k))
	}
}

func normalizePath(p string) string {
	if p == "" {
		return "/"
	}
	return p
}
