// Package schema describes which attributes of a connections document exist
// at each schema version and how their raw text maps onto model fields.
package schema

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Version — версия схемы в сотых долях: "2.6" хранится как 260.
type Version int

// MaxSupported — старшая версия, которую умеет читать декодер.
const MaxSupported Version = 280

// V builds a version from its major and single-digit minor part.
func V(major, minor int) Version { return Version(major*100 + minor*10) }

var ErrBadVersion = errors.New("bad schema version")

// ParseVersion разбирает десятичную запись с точкой или запятой.
func ParseVersion(s string) (Version, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0, fmt.Errorf("%w: %q", ErrBadVersion, s)
	}
	// всё выше 100.00 заведомо не поддерживается, дальше не считаем
	if f > 100 {
		return 10001, nil
	}
	v := Version(math.Round(f * 100))
	// сравнение с максимумом идёт по исходному числу: "2.801" выше 2.8,
	// хотя в сотых долях округляется до 280
	if f > float64(MaxSupported)/100 && v <= MaxSupported {
		v = MaxSupported + 1
	}
	return v, nil
}

func (v Version) String() string {
	if v%10 == 0 {
		return fmt.Sprintf("%d.%d", v/100, v%100/10)
	}
	return fmt.Sprintf("%d.%02d", v/100, v%100)
}

// Supported reports whether a decoder understands v.
func (v Version) Supported() bool { return v <= MaxSupported }
