package output

import (
	"bytes"
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/EtchProject/qiling/go/models"
)

type fakeRegs struct {
	pc  uint64
	err error
}

func (f *fakeRegs) PC() (uint64, error) { return f.pc, f.err }

type fakeThread struct {
	log *logrus.Logger
}

func (f *fakeThread) Logger() *logrus.Logger { return f.log }

func newSink(output models.OutputMode, verbose interface{}) (*Sink, *bytes.Buffer) {
	var buf bytes.Buffer
	cfg := models.DefaultConfig()
	cfg.Output = output
	cfg.Verbose = verbose
	return &Sink{Config: cfg, Log: NewLogger(&buf), Regs: &fakeRegs{pc: 0x1234}}, &buf
}

func TestPrint(t *testing.T) {
	s, buf := newSink(models.OUTPUT_DEFAULT, 1)
	if err := s.Print(nil, "hello", 1, 0x10); err != nil {
		t.Fatal(err)
	}
	if err := s.PrintOpt(nil, PrintOpt{Sep: ",", End: "!"}, "a", "b"); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "hello 1 16\na,b!\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestPrintNoDestination(t *testing.T) {
	s, _ := newSink(models.OUTPUT_DEBUG, 5)
	s.Log = nil
	if err := s.Print(nil, "dropped"); err != nil {
		t.Fatal(err)
	}
	if err := s.Debug(nil, D_INFO, "dropped"); err != nil {
		t.Fatal(err)
	}
}

func TestPrintConsoleNotBool(t *testing.T) {
	for _, console := range []interface{}{"yes", 1, nil} {
		s, buf := newSink(models.OUTPUT_DEFAULT, 1)
		s.Config.Console = console
		if err := s.Print(nil, "x"); errors.Cause(err) != models.ErrInvalidOutput {
			t.Fatalf("console %v: got %v", console, err)
		}
		if buf.Len() != 0 {
			t.Fatalf("console %v: printed %q", console, buf.String())
		}
	}
	s, _ := newSink(models.OUTPUT_DEFAULT, 1)
	s.Config.Console = false
	if err := s.Print(nil, "x"); err != nil {
		t.Fatal(err)
	}
}

func TestDebugNonDebugOutput(t *testing.T) {
	for _, output := range []models.OutputMode{models.OUTPUT_OFF, models.OUTPUT_DEFAULT, models.OUTPUT_DISASM} {
		for _, verbose := range []interface{}{0, 1, "1", true} {
			s, buf := newSink(output, verbose)
			for _, level := range []int{0, D_INFO, D_DRPT} {
				if err := s.Debug(nil, level, "x"); err != nil {
					t.Fatalf("%s/%v: %v", output, verbose, err)
				}
			}
			if buf.Len() != 0 {
				t.Fatalf("%s/%v printed %q", output, verbose, buf.String())
			}
		}
	}
}

func TestDebugLevels(t *testing.T) {
	s, buf := newSink(models.OUTPUT_DEBUG, "3")
	s.Debug(nil, D_INFO, "info")
	s.Debug(nil, D_CTNT, "content")
	s.Debug(nil, D_RPRT, "report")
	if got := buf.String(); got != "info\ncontent\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestDebugPCPrefix(t *testing.T) {
	s, buf := newSink(models.OUTPUT_DEBUG, D_DRPT)
	if err := s.Debug(nil, D_INFO, "step"); err != nil {
		t.Fatal(err)
	}
	s.Regs.(*fakeRegs).err = errors.New("arch not ready")
	if err := s.Debug(nil, D_INFO, "step"); err != nil {
		t.Fatal(err)
	}
	s.Regs = nil
	if err := s.Debug(nil, D_INFO, "step"); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "0x1234: step\n0x0: step\n0x0: step\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestDebugDump(t *testing.T) {
	s, buf := newSink(models.OUTPUT_DUMP, 1)
	if err := s.Debug(nil, D_INFO, "dump"); err != nil {
		t.Fatal(err)
	}
	if err := s.Debug(nil, D_MAX, "max"); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "0x1234: dump\n0x1234: max\n" {
		t.Fatalf("unexpected output %q", got)
	}
	// the configured value is left alone
	if s.Config.Verbose != 1 {
		t.Fatalf("config verbose changed to %v", s.Config.Verbose)
	}
}

func TestDebugInvalidVerbose(t *testing.T) {
	tests := []struct {
		output  models.OutputMode
		verbose interface{}
	}{
		{models.OUTPUT_DEBUG, "abc"},
		{models.OUTPUT_DEBUG, 100},
		{models.OUTPUT_DUMP, 1000},
		{models.OUTPUT_DEBUG, -1},
		{models.OUTPUT_DEBUG, []int{1}},
		{models.OUTPUT_DEFAULT, 2},
		{models.OUTPUT_DISASM, "5"},
	}
	for _, tt := range tests {
		s, buf := newSink(tt.output, tt.verbose)
		if err := s.Debug(nil, D_INFO, "x"); errors.Cause(err) != models.ErrInvalidVerbose {
			t.Errorf("%s/%v: got %v", tt.output, tt.verbose, err)
		}
		if buf.Len() != 0 {
			t.Errorf("%s/%v printed %q", tt.output, tt.verbose, buf.String())
		}
	}
}

func TestNormalizeVerbose(t *testing.T) {
	tests := []struct {
		raw  interface{}
		want int
	}{
		{false, 0},
		{true, 1},
		{4, 4},
		{uint8(7), 7},
		{int64(99), 99},
		{3.9, 3},
		{float32(99), 99},
		{" 12 ", 12},
	}
	for _, tt := range tests {
		got, err := NormalizeVerbose(tt.raw)
		if err != nil {
			t.Fatalf("NormalizeVerbose(%#v) failed: %v", tt.raw, err)
		}
		if got != tt.want {
			t.Errorf("NormalizeVerbose(%#v) = %d, want %d", tt.raw, got, tt.want)
		}
	}
}

func TestNormalizeVerboseInvalid(t *testing.T) {
	for _, raw := range []interface{}{nil, math.NaN(), math.Inf(1), math.Inf(-1), 1e300, -1e300, -0.5, 99.5, 100.0, "1.5", uint64(1 << 63)} {
		if _, err := NormalizeVerbose(raw); errors.Cause(err) != models.ErrInvalidVerbose {
			t.Errorf("NormalizeVerbose(%#v) returned %v", raw, err)
		}
	}
}

func TestDebugConsoleOnlyWhenEmitted(t *testing.T) {
	s, buf := newSink(models.OUTPUT_DEBUG, 1)
	s.Config.Console = "yes"
	if err := s.Debug(nil, D_DRPT, "filtered"); err != nil {
		t.Fatalf("filtered line checked the console: %v", err)
	}
	s.Config.Output = models.OUTPUT_DEFAULT
	if err := s.Debug(nil, D_INFO, "not debuggable"); err != nil {
		t.Fatalf("non-debug output checked the console: %v", err)
	}
	s.Config.Output = models.OUTPUT_DEBUG
	if err := s.Debug(nil, D_INFO, "emitted"); errors.Cause(err) != models.ErrInvalidOutput {
		t.Fatalf("emitted line returned %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("printed %q", buf.String())
	}
}

func TestRouteNoGlobal(t *testing.T) {
	var private bytes.Buffer
	s, _ := newSink(models.OUTPUT_DEFAULT, 1)
	s.Log = nil
	s.Config.MultiThread = true
	th := &fakeThread{log: NewLogger(&private)}
	if Route(s.Config, nil, th) != nil {
		t.Fatal("Route() picked the thread logger without a global destination")
	}
	if err := s.Print(th, "dropped"); err != nil {
		t.Fatal(err)
	}
	if private.Len() != 0 {
		t.Fatalf("thread got %q", private.String())
	}
}

func TestRoute(t *testing.T) {
	var global, private bytes.Buffer
	s, _ := newSink(models.OUTPUT_DEFAULT, 1)
	s.Log = NewLogger(&global)
	th := &fakeThread{log: NewLogger(&private)}

	s.Print(th, "single")
	s.Config.MultiThread = true
	s.Print(th, "threaded")
	s.Print(nil, "no thread")
	s.Print(&fakeThread{}, "no thread log")

	if got := global.String(); got != "single\nno thread\nno thread log\n" {
		t.Fatalf("global got %q", got)
	}
	if got := private.String(); got != "threaded\n" {
		t.Fatalf("thread got %q", got)
	}
}
