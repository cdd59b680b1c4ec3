package booking

import (
	"crypto/rand"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	codePrefix    = "TAXI"
	codeSuffixLen = 5
	base36        = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// CodeGenerator issues booking codes of the form TAXI<millis base36><5 random
// base36 chars>. Within one process a code is never handed out twice; codes
// from different processes can still collide and are caught by the unique
// index on booking_code.
type CodeGenerator struct {
	mu     sync.Mutex
	now    func() time.Time
	rand   io.Reader
	lastMs int64
	issued map[string]struct{}
}

func NewCodeGenerator() *CodeGenerator {
	return newCodeGenerator(time.Now, rand.Reader)
}

func newCodeGenerator(now func() time.Time, r io.Reader) *CodeGenerator {
	return &CodeGenerator{now: now, rand: r, issued: make(map[string]struct{})}
}

func (g *CodeGenerator) Next() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := g.now().UnixMilli()
	if ms != g.lastMs {
		g.lastMs = ms
		clear(g.issued)
	}

	// 36^5 suffixes per millisecond; give up long before exhausting them.
	for i := 0; i < 64; i++ {
		suffix, err := g.suffix()
		if err != nil {
			return "", err
		}
		if _, dup := g.issued[suffix]; dup {
			continue
		}
		g.issued[suffix] = struct{}{}
		return codePrefix + strings.ToUpper(strconv.FormatInt(ms, 36)) + suffix, nil
	}
	return "", fmt.Errorf("booking code space exhausted for millisecond %d", ms)
}

func (g *CodeGenerator) suffix() (string, error) {
	out := make([]byte, 0, codeSuffixLen)
	buf := make([]byte, 8)
	for len(out) < codeSuffixLen {
		if _, err := io.ReadFull(g.rand, buf); err != nil {
			return "", fmt.Errorf("read random: %w", err)
		}
		for _, b := range buf {
			// 252 = 7*36; rejecting the rest keeps every digit equally likely.
			if b >= 252 {
				continue
			}
			out = append(out, base36[int(b)%36])
			if len(out) == codeSuffixLen {
				break
			}
		}
	}
	return string(out), nil
}
