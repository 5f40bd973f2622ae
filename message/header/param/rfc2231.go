package param

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/zostay/go-email2dict/message/header/encoding"
)

var errMalformed = errors.New("malformed parameter")

// rawParam is a parameter as written, before RFC 2231 assembly.
type rawParam struct {
	name  string
	value string
}

// section is one piece of an RFC 2231 parameter. A parameter named "name*"
// is treated as section 0.
type section struct {
	n        int
	extended bool
	value    string
}

// splitName breaks an RFC 2231 parameter name into its base name, section
// number and whether it is extended ("*" suffix).
func splitName(name string) (base string, n int, sectioned, extended bool, err error) {
	if strings.HasSuffix(name, "*") {
		extended = true
		name = name[:len(name)-1]
	}

	base = name
	if ix := strings.IndexByte(name, '*'); ix >= 0 {
		base = name[:ix]
		num := name[ix+1:]
		if num == "" || (len(num) > 1 && num[0] == '0') {
			return "", 0, false, false, errMalformed
		}
		n, err = strconv.Atoi(num)
		if err != nil || n < 0 {
			return "", 0, false, false, errMalformed
		}
		sectioned = true
	}

	if base == "" {
		return "", 0, false, false, errMalformed
	}

	return base, n, sectioned, extended, nil
}

// unhex decodes a single hex digit.
func unhex(c byte) (byte, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// percentDecode decodes %XX triplets into bytes.
func percentDecode(s string) ([]byte, error) {
	b := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '%' {
			b = append(b, s[i])
			continue
		}
		if i+2 >= len(s) {
			return nil, fmt.Errorf("%w: truncated percent-encoding", errMalformed)
		}
		hi, ok1 := unhex(s[i+1])
		lo, ok2 := unhex(s[i+2])
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("%w: bad percent-encoding %q", errMalformed, s[i:i+3])
		}
		b = append(b, hi<<4|lo)
		i += 2
	}
	return b, nil
}

// decodeSections concatenates the sections of one parameter in order and
// decodes the result using the charset named by section 0. The language tag
// is discarded.
func decodeSections(ss []section) (string, error) {
	sort.SliceStable(ss, func(i, j int) bool { return ss[i].n < ss[j].n })
	for i, s := range ss {
		if s.n != i {
			return "", fmt.Errorf("%w: missing or repeated continuation %d", errMalformed, i)
		}
	}

	charset := ""
	var buf []byte
	for i, s := range ss {
		v := s.value
		if !s.extended {
			buf = append(buf, v...)
			continue
		}

		if i == 0 {
			parts := strings.SplitN(v, "'", 3)
			if len(parts) != 3 {
				return "", fmt.Errorf("%w: extended value lacks charset and language", errMalformed)
			}
			charset, v = parts[0], parts[2]
		}

		b, err := percentDecode(v)
		if err != nil {
			return "", err
		}
		buf = append(buf, b...)
	}

	return encoding.Decode(charset, buf)
}

// assemble groups raw parameters by base name, applies RFC 2231 decoding and
// returns them ordered by the first appearance of each base name. An extended
// parameter takes precedence over a plain one with the same base name. Later
// plain duplicates replace earlier ones.
func assemble(raw []rawParam) (Params, error) {
	order := make([]string, 0, len(raw))
	plain := make(map[string]string, len(raw))
	sections := make(map[string][]section)
	seen := make(map[string]bool, len(raw))

	for _, rp := range raw {
		base, n, sectioned, extended, err := splitName(rp.name)
		if err != nil {
			return nil, err
		}

		if !seen[base] {
			seen[base] = true
			order = append(order, base)
		}

		if !sectioned && !extended {
			plain[base] = rp.value
			continue
		}

		sections[base] = append(sections[base], section{n, extended, rp.value})
	}

	ps := make(Params, 0, len(order))
	for _, base := range order {
		if ss, ok := sections[base]; ok {
			v, err := decodeSections(ss)
			if err != nil {
				return nil, err
			}
			ps = append(ps, Param{base, v})
			continue
		}
		ps = append(ps, Param{base, plain[base]})
	}

	return ps, nil
}
