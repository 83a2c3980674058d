package verification

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/z80decomp/internal/codegen"
	"github.com/retroenv/z80decomp/internal/disasm"
	"github.com/retroenv/z80decomp/internal/liveness"
	"github.com/retroenv/z80decomp/internal/memory"
	"github.com/retroenv/z80decomp/internal/writer"
)

func generate(t *testing.T, runtime bool, code []byte) (string, []byte, []codegen.Function) {
	t.Helper()
	logger := log.NewTestLogger(t)

	mem := memory.New()
	mem.Load(0x4000, code)

	dis := disasm.New(logger, mem)
	_, err := dis.Trace(0x4000)
	assert.NoError(t, err)
	liveness.New(logger, dis).Analyze(dis.Routines())

	functions, err := codegen.New(logger, dis, nil).EmitClosure([]uint16{0x4000})
	assert.NoError(t, err)

	var buf bytes.Buffer
	assert.NoError(t, writer.New(functions, &buf, writer.Options{Runtime: runtime}).Write())
	return buf.String(), mem.Bytes(), functions
}

func TestVerifyOutputRun(t *testing.T) {
	output, image, functions := generate(t, true, []byte{
		0x3e, 0x42, // LD A,0x42
		0x01, 0x10, 0x00, // LD BC,0x0010
		0xed, 0x79, // OUT (C),A
		0x32, 0x00, 0x50, // LD (0x5000),A
		0xc9, // RET
	})

	result, err := VerifyOutput(context.Background(), log.NewTestLogger(t), output, image, functions,
		Options{Run: []string{"r4000"}, Timeout: time.Second, Runtime: true})
	assert.NoError(t, err)
	assert.Equal(t, []Port{{Port: 0x0010, Value: 0x42}}, result.Ports)
	assert.Len(t, result.Memory, memory.Size)
	assert.Equal(t, byte(0x42), result.Memory[0x5000])
	assert.Equal(t, byte(0x3e), result.Memory[0x4000])
}

func TestVerifyOutputWithoutRuntime(t *testing.T) {
	output, image, functions := generate(t, false, []byte{0x3c, 0xc9}) // INC A; RET

	_, err := VerifyOutput(context.Background(), log.NewTestLogger(t), output, image, functions,
		Options{Run: []string{"r4000"}})
	assert.NoError(t, err)
}

func TestVerifyOutputTimeout(t *testing.T) {
	output, image, functions := generate(t, true, []byte{0x18, 0xfe}) // JR 0x4000

	_, err := VerifyOutput(context.Background(), log.NewTestLogger(t), output, image, functions,
		Options{Run: []string{"r4000"}, Timeout: 50 * time.Millisecond, Runtime: true})
	assert.Error(t, err)
}

func TestVerifyOutputErrors(t *testing.T) {
	output, image, functions := generate(t, true, []byte{0xc9})

	tests := []struct {
		name      string
		output    string
		functions []codegen.Function
		opts      Options
	}{
		{"syntax error", output + "\nfunction (", functions, Options{Runtime: true}},
		{"missing function", output, append(functions, codegen.Function{Name: "r5000"}), Options{Runtime: true}},
		{"run unknown function", output, functions, Options{Runtime: true, Run: []string{"r6000"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := VerifyOutput(context.Background(), log.NewTestLogger(t), tt.output, image, tt.functions, tt.opts)
			assert.Error(t, err)
		})
	}
}

func TestVerifyOutputCancelled(t *testing.T) {
	output, image, functions := generate(t, true, []byte{0xc9})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := VerifyOutput(ctx, log.NewTestLogger(t), output, image, functions,
		Options{Run: []string{"r4000"}, Runtime: true})
	assert.Error(t, err)
}
