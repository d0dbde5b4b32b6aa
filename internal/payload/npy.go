package payload

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"

	"calman/internal/value"
)

var npyMagic = []byte("\x93NUMPY")

// Limits on what a file may claim before anything is allocated for it.
const (
	maxHeaderLen  = 1 << 20
	maxArrayBytes = 1 << 30
)

var (
	descrPattern   = regexp.MustCompile(`'descr'\s*:\s*'([^']*)'`)
	fortranPattern = regexp.MustCompile(`'fortran_order'\s*:\s*(True|False)`)
	shapePattern   = regexp.MustCompile(`'shape'\s*:\s*\(([^)]*)\)`)
)

// ReadArray decodes a NumPy .npy stream. Numeric and boolean dtypes of any
// byte order are accepted and converted to float64; Fortran ordered data is
// rearranged into row-major order.
func ReadArray(r io.Reader) (value.Array, error) {
	br := bufio.NewReader(r)

	prefix := make([]byte, len(npyMagic)+2)
	if _, err := io.ReadFull(br, prefix); err != nil {
		return value.Array{}, fmt.Errorf("read npy preamble: %w", err)
	}
	if !bytes.Equal(prefix[:len(npyMagic)], npyMagic) {
		return value.Array{}, errors.New("not an npy file")
	}

	var headerLen int
	switch major := prefix[len(npyMagic)]; major {
	case 1:
		var n uint16
		if err := binary.Read(br, binary.LittleEndian, &n); err != nil {
			return value.Array{}, fmt.Errorf("read npy header length: %w", err)
		}
		headerLen = int(n)
	case 2, 3:
		var n uint32
		if err := binary.Read(br, binary.LittleEndian, &n); err != nil {
			return value.Array{}, fmt.Errorf("read npy header length: %w", err)
		}
		if n > maxHeaderLen {
			return value.Array{}, fmt.Errorf("npy header length %d exceeds %d", n, maxHeaderLen)
		}
		headerLen = int(n)
	default:
		return value.Array{}, fmt.Errorf("unsupported npy version %d", major)
	}

	header := make([]byte, headerLen)
	if _, err := io.ReadFull(br, header); err != nil {
		return value.Array{}, fmt.Errorf("read npy header: %w", err)
	}
	descr, fortran, shape, err := parseHeader(string(header))
	if err != nil {
		return value.Array{}, err
	}
	dt, err := parseDescr(descr)
	if err != nil {
		return value.Array{}, err
	}

	n := 1
	for _, d := range shape {
		if d != 0 && n > maxArrayBytes/dt.size/d {
			return value.Array{}, fmt.Errorf("npy shape %v exceeds %d bytes", shape, maxArrayBytes)
		}
		n *= d
	}
	raw := make([]byte, n*dt.size)
	if _, err := io.ReadFull(br, raw); err != nil {
		return value.Array{}, fmt.Errorf("read npy data: %w", err)
	}
	data := make([]float64, n)
	for i := range data {
		data[i] = dt.decode(raw[i*dt.size : (i+1)*dt.size])
	}
	if fortran && len(shape) > 1 {
		data = fortranToC(shape, data)
	}
	return value.NewArray(shape, data)
}

// WriteArray encodes a as a version 1.0 .npy stream of little endian float64
// in C order.
func WriteArray(w io.Writer, a value.Array) error {
	dims := make([]string, len(a.Shape))
	for i, d := range a.Shape {
		dims[i] = strconv.Itoa(d)
	}
	shape := strings.Join(dims, ", ")
	if len(a.Shape) == 1 {
		shape += ","
	}
	header := fmt.Sprintf("{'descr': '<f8', 'fortran_order': False, 'shape': (%s), }", shape)

	// Magic, version and length take 10 bytes; the header is padded with
	// spaces and a trailing newline to a multiple of 64.
	total := len(npyMagic) + 4 + len(header) + 1
	if rem := total % 64; rem != 0 {
		header += strings.Repeat(" ", 64-rem)
	}
	header += "\n"
	if len(header) > math.MaxUint16 {
		return fmt.Errorf("npy header too long for shape %v", a.Shape)
	}

	var buf bytes.Buffer
	buf.Write(npyMagic)
	buf.Write([]byte{1, 0})
	_ = binary.Write(&buf, binary.LittleEndian, uint16(len(header)))
	buf.WriteString(header)
	for _, f := range a.Data {
		_ = binary.Write(&buf, binary.LittleEndian, f)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

func parseHeader(h string) (descr string, fortran bool, shape []int, err error) {
	m := descrPattern.FindStringSubmatch(h)
	if m == nil {
		return "", false, nil, fmt.Errorf("npy header has no descr: %q", h)
	}
	descr = m[1]

	m = fortranPattern.FindStringSubmatch(h)
	if m == nil {
		return "", false, nil, fmt.Errorf("npy header has no fortran_order: %q", h)
	}
	fortran = m[1] == "True"

	m = shapePattern.FindStringSubmatch(h)
	if m == nil {
		return "", false, nil, fmt.Errorf("npy header has no shape: %q", h)
	}
	for _, part := range strings.Split(m[1], ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		// Python 2 era files write long integers as 3L.
		d, err := strconv.Atoi(strings.TrimSuffix(part, "L"))
		if err != nil {
			return "", false, nil, fmt.Errorf("bad npy shape %q: %w", m[1], err)
		}
		if d < 0 {
			return "", false, nil, fmt.Errorf("bad npy shape %q: negative dimension", m[1])
		}
		shape = append(shape, d)
	}
	return descr, fortran, shape, nil
}

type dtype struct {
	size   int
	decode func([]byte) float64
}

func parseDescr(descr string) (dtype, error) {
	if len(descr) < 3 {
		return dtype{}, fmt.Errorf("unsupported npy dtype %q", descr)
	}
	var order binary.ByteOrder = binary.LittleEndian
	switch descr[0] {
	case '<', '|', '=':
	case '>':
		order = binary.BigEndian
	default:
		return dtype{}, fmt.Errorf("unsupported npy byte order in %q", descr)
	}

	switch descr[1:] {
	case "f8":
		return dtype{8, func(b []byte) float64 { return math.Float64frombits(order.Uint64(b)) }}, nil
	case "f4":
		return dtype{4, func(b []byte) float64 { return float64(math.Float32frombits(order.Uint32(b))) }}, nil
	case "i8":
		return dtype{8, func(b []byte) float64 { return float64(int64(order.Uint64(b))) }}, nil
	case "i4":
		return dtype{4, func(b []byte) float64 { return float64(int32(order.Uint32(b))) }}, nil
	case "i2":
		return dtype{2, func(b []byte) float64 { return float64(int16(order.Uint16(b))) }}, nil
	case "i1":
		return dtype{1, func(b []byte) float64 { return float64(int8(b[0])) }}, nil
	case "u8":
		return dtype{8, func(b []byte) float64 { return float64(order.Uint64(b)) }}, nil
	case "u4":
		return dtype{4, func(b []byte) float64 { return float64(order.Uint32(b)) }}, nil
	case "u2":
		return dtype{2, func(b []byte) float64 { return float64(order.Uint16(b)) }}, nil
	case "u1", "b1":
		return dtype{1, func(b []byte) float64 { return float64(b[0]) }}, nil
	default:
		return dtype{}, fmt.Errorf("unsupported npy dtype %q", descr)
	}
}

// fortranToC reorders column-major data into row-major order.
func fortranToC(shape []int, data []float64) []float64 {
	strides := make([]int, len(shape))
	s := 1
	for d := range shape {
		strides[d] = s
		s *= shape[d]
	}

	out := make([]float64, len(data))
	idx := make([]int, len(shape))
	for i := range out {
		off := 0
		for d, v := range idx {
			off += v * strides[d]
		}
		out[i] = data[off]
		for d := len(idx) - 1; d >= 0; d-- {
			idx[d]++
			if idx[d] < shape[d] {
				break
			}
			idx[d] = 0
		}
	}
	return out
}
