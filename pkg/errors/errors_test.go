package errors

import (
	"strings"
	"testing"
	"time"
)

func TestInviewErrorString(t *testing.T) {
	err := &InviewError{
		Op:   "visibility.New",
		Kind: KindConfig,
		Err:  &ParseError{Input: "12vh", Reason: "unknown unit"},
	}
	got := err.Error()
	if got == "" {
		t.Error("expected non-empty error string")
	}
	if !strings.Contains(got, "visibility.New") {
		t.Errorf("error string %q should contain the op", got)
	}
	if !strings.Contains(got, "[config]") {
		t.Errorf("error string %q should contain the kind", got)
	}
}

func TestInviewErrorUnwrap(t *testing.T) {
	inner := &ParseError{Input: "x", Reason: "bad"}
	err := &InviewError{Op: "visibility.Reconfigure", Kind: KindConfig, Err: inner}
	if got := err.Unwrap(); got != inner {
		t.Errorf("Unwrap() = %v, want %v", got, inner)
	}
}

func TestErrorKindString(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{KindUnknown, "unknown"},
		{KindConfig, "config"},
		{KindUsage, "usage"},
		{KindSensor, "sensor"},
		{KindCallback, "callback"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("ErrorKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestPanicErrorString(t *testing.T) {
	err := &PanicError{
		Value:     "test panic",
		Timestamp: time.Now(),
	}
	got := err.Error()
	want := "panic: test panic"
	if got != want {
		t.Errorf("PanicError.Error() = %q, want %q", got, want)
	}
}

func TestPanicErrorStringWithOp(t *testing.T) {
	err := &PanicError{
		Op:        "showcase.replay",
		Value:     "test panic",
		Timestamp: time.Now(),
	}
	got := err.Error()
	want := "panic in showcase.replay: test panic"
	if got != want {
		t.Errorf("PanicError.Error() = %q, want %q", got, want)
	}
}

func TestParseErrorString(t *testing.T) {
	err := &ParseError{
		Input:  "10px 20px 30px 40px 50px",
		Reason: "expected 1 to 4 components",
	}
	got := err.Error()
	if !strings.Contains(got, "10px 20px 30px 40px 50px") {
		t.Errorf("error string %q should contain the input", got)
	}
	if !strings.Contains(got, "expected 1 to 4 components") {
		t.Errorf("error string %q should contain the reason", got)
	}
}

func TestCallbackErrorString(t *testing.T) {
	err := &CallbackError{
		Target:    "*feed.Row",
		Recovered: "nil pointer dereference",
		Timestamp: time.Now(),
	}
	got := err.Error()
	want := "panic in visibility callback for *feed.Row: nil pointer dereference"
	if got != want {
		t.Errorf("CallbackError.Error() = %q, want %q", got, want)
	}

	unknown := &CallbackError{Target: "*feed.Row"}
	got2 := unknown.Error()
	want2 := "unknown error in visibility callback for *feed.Row"
	if got2 != want2 {
		t.Errorf("CallbackError.Error() = %q, want %q", got2, want2)
	}
}

func TestReport(t *testing.T) {
	var capturedErr *InviewError
	handler := &testHandler{
		onError: func(err *InviewError) {
			capturedErr = err
		},
	}

	oldHandler := DefaultHandler
	SetHandler(handler)
	defer SetHandler(oldHandler)

	Report(&InviewError{
		Op:   "test.op",
		Kind: KindSensor,
		Err:  &ParseError{Input: "x", Reason: "bad"},
	})

	if capturedErr == nil {
		t.Fatal("expected error to be captured")
	}
	if capturedErr.Op != "test.op" {
		t.Errorf("Op = %q, want %q", capturedErr.Op, "test.op")
	}
	if capturedErr.Timestamp.IsZero() {
		t.Error("expected Timestamp to be set")
	}
}

func TestReportPanic(t *testing.T) {
	var capturedPanic *PanicError
	handler := &testHandler{
		onPanic: func(err *PanicError) {
			capturedPanic = err
		},
	}

	oldHandler := DefaultHandler
	SetHandler(handler)
	defer SetHandler(oldHandler)

	ReportPanic(&PanicError{
		Value:     "test panic value",
		Timestamp: time.Now(),
	})

	if capturedPanic == nil {
		t.Fatal("expected panic to be captured")
	}
	if capturedPanic.Value != "test panic value" {
		t.Errorf("Value = %v, want %q", capturedPanic.Value, "test panic value")
	}
}

func TestReportCallbackError(t *testing.T) {
	var captured *CallbackError
	handler := &testHandler{
		onCallbackError: func(err *CallbackError) {
			captured = err
		},
	}

	oldHandler := DefaultHandler
	SetHandler(handler)
	defer SetHandler(oldHandler)

	ReportCallbackError(&CallbackError{
		Target:    "*feed.Row",
		Recovered: "test panic",
	})

	if captured == nil {
		t.Fatal("expected callback error to be captured")
	}
	if captured.Target != "*feed.Row" {
		t.Errorf("Target = %q, want %q", captured.Target, "*feed.Row")
	}
	if captured.Timestamp.IsZero() {
		t.Error("expected Timestamp to be set")
	}
}

func TestRecover(t *testing.T) {
	var capturedPanic *PanicError
	handler := &testHandler{
		onPanic: func(err *PanicError) {
			capturedPanic = err
		},
	}

	oldHandler := DefaultHandler
	SetHandler(handler)
	defer SetHandler(oldHandler)

	func() {
		defer Recover("test.recover")
		panic("intentional test panic")
	}()

	if capturedPanic == nil {
		t.Fatal("expected panic to be recovered and captured")
	}
	if capturedPanic.Value != "intentional test panic" {
		t.Errorf("Value = %v, want %q", capturedPanic.Value, "intentional test panic")
	}
	if capturedPanic.Op != "test.recover" {
		t.Errorf("Op = %q, want %q", capturedPanic.Op, "test.recover")
	}
}

func TestCaptureStack(t *testing.T) {
	stack := CaptureStack()
	if stack == "" {
		t.Error("expected non-empty stack trace")
	}
	if !strings.Contains(stack, "testing") && !strings.Contains(stack, "runtime") {
		t.Errorf("stack trace should contain testing or runtime frames, got: %s", stack)
	}
}

func TestSetHandlerNil(t *testing.T) {
	SetHandler(nil)
	if DefaultHandler == nil {
		t.Error("SetHandler(nil) should set default LogHandler, not nil")
	}
	if _, ok := DefaultHandler.(*LogHandler); !ok {
		t.Errorf("SetHandler(nil) should set LogHandler, got %T", DefaultHandler)
	}
}

type testHandler struct {
	onError         func(*InviewError)
	onPanic         func(*PanicError)
	onCallbackError func(*CallbackError)
}

func (h *testHandler) HandleError(err *InviewError) {
	if h.onError != nil {
		h.onError(err)
	}
}

func (h *testHandler) HandlePanic(err *PanicError) {
	if h.onPanic != nil {
		h.onPanic(err)
	}
}

func (h *testHandler) HandleCallbackError(err *CallbackError) {
	if h.onCallbackError != nil {
		h.onCallbackError(err)
	}
}
