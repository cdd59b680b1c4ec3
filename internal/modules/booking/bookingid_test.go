package booking

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodeGenerator_Format(t *testing.T) {
	at := time.Date(2030, 6, 1, 12, 0, 0, 0, time.UTC)
	g := newCodeGenerator(func() time.Time { return at }, NewCodeGenerator().rand)

	code, err := g.Next()
	require.NoError(t, err)

	ts := strings.ToUpper(strconv.FormatInt(at.UnixMilli(), 36))
	assert.True(t, strings.HasPrefix(code, "TAXI"+ts), code)
	assert.Len(t, code, len("TAXI")+len(ts)+codeSuffixLen)
	assert.Regexp(t, codePattern, code)
}

func TestCodeGenerator_UniqueAcross100kGenerations(t *testing.T) {
	g := NewCodeGenerator()
	seen := make(map[string]struct{}, 100000)
	for i := 0; i < 100000; i++ {
		code, err := g.Next()
		require.NoError(t, err)
		_, dup := seen[code]
		require.False(t, dup, "duplicate code %s after %d generations", code, i)
		seen[code] = struct{}{}
	}
}

func TestCodeGenerator_UniqueWithinOneMillisecond(t *testing.T) {
	at := time.Date(2030, 6, 1, 12, 0, 0, 0, time.UTC)
	g := newCodeGenerator(func() time.Time { return at }, NewCodeGenerator().rand)

	seen := make(map[string]struct{}, 100000)
	for i := 0; i < 100000; i++ {
		code, err := g.Next()
		require.NoError(t, err)
		seen[code] = struct{}{}
	}
	assert.Len(t, seen, 100000)
}

// The suffix alphabet must be uniform or the collision bound does not hold.
func TestCodeGenerator_SuffixIsUniform(t *testing.T) {
	g := NewCodeGenerator()
	counts := make(map[byte]int, 36)
	const n = 100000
	for i := 0; i < n; i++ {
		code, err := g.Next()
		require.NoError(t, err)
		for _, ch := range []byte(code[len(code)-codeSuffixLen:]) {
			counts[ch]++
		}
	}

	require.Len(t, counts, 36)
	expected := float64(n*codeSuffixLen) / 36
	for ch, c := range counts {
		assert.InEpsilon(t, expected, float64(c), 0.05, "digit %q", ch)
	}
}

type zeroReader struct{}

func (zeroReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	return len(p), nil
}

func TestCodeGenerator_RefusesToRepeatWithinProcess(t *testing.T) {
	at := time.Date(2030, 6, 1, 12, 0, 0, 0, time.UTC)
	g := newCodeGenerator(func() time.Time { return at }, zeroReader{})

	first, err := g.Next()
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(first, "00000"))

	_, err = g.Next()
	assert.Error(t, err)

	at = at.Add(time.Millisecond)
	next, err := g.Next()
	require.NoError(t, err)
	assert.NotEqual(t, first, next)
}
