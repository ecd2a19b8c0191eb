package executor

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	contractx "github.com/tanpawarit/memagent/agent/contract"
	statex "github.com/tanpawarit/memagent/agent/state"
	toolx "github.com/tanpawarit/memagent/agent/tool"
)

type fakeStore struct {
	doc     *statex.Document
	loadErr error
	saveErr error
	saved   []*statex.Document
}

func (f *fakeStore) Load(ctx context.Context) (*statex.Document, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	if f.doc == nil {
		return statex.NewDocument(), nil
	}
	return f.doc.Clone(), nil
}

func (f *fakeStore) Save(ctx context.Context, doc *statex.Document) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.doc = doc.Clone()
	f.saved = append(f.saved, doc.Clone())
	return nil
}

type fakeDecider struct {
	actions []contractx.Action
	err     error
	reqs    []contractx.DecisionRequest
}

// Decide replays actions in order and repeats the last one when exhausted.
func (f *fakeDecider) Decide(ctx context.Context, req contractx.DecisionRequest) (contractx.Action, error) {
	f.reqs = append(f.reqs, contractx.DecisionRequest{Context: req.Context, Memory: req.Memory.Clone()})
	if f.err != nil {
		return contractx.Action{}, f.err
	}
	if len(f.actions) == 0 {
		return contractx.Action{}, errors.New("no fake action")
	}
	idx := min(len(f.reqs)-1, len(f.actions)-1)
	return f.actions[idx], nil
}

type fakePlanner struct {
	plan  contractx.Plan
	err   error
	calls int
	seen  *statex.Document
}

func (f *fakePlanner) Plan(ctx context.Context, req contractx.PlanRequest) (contractx.Plan, error) {
	f.calls++
	f.seen = req.Memory.Clone()
	if f.err != nil {
		return contractx.Plan{}, f.err
	}
	return f.plan, nil
}

type fakeSynthesizer struct {
	answer     string
	err        error
	calls      int
	seen       *statex.Document
	savedAtRun int
	store      *fakeStore
}

func (f *fakeSynthesizer) Synthesize(ctx context.Context, req contractx.SynthesisRequest) (string, error) {
	f.calls++
	f.seen = req.Memory.Clone()
	if f.store != nil {
		f.savedAtRun = len(f.store.saved)
	}
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

type fakeRegistry struct {
	decider     contractx.DecisionEngine
	planner     contractx.Planner
	synthesizer contractx.Synthesizer
}

func (f *fakeRegistry) Decider() contractx.DecisionEngine {
	return f.decider
}

func (f *fakeRegistry) Planner() contractx.Planner {
	return f.planner
}

func (f *fakeRegistry) Synthesizer() contractx.Synthesizer {
	return f.synthesizer
}

func newTestTools() *toolx.Toolset {
	clock := func() time.Time { return time.Date(2024, 5, 1, 22, 30, 0, 0, time.UTC) }
	return toolx.NewToolset(toolx.WithClock(clock), toolx.WithLocation(time.UTC))
}

func newTestExecutor(t *testing.T, store *fakeStore, models *fakeRegistry, cfg Config) *Executor {
	t.Helper()
	e, err := New(store, models, newTestTools(), cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	e.newTurnID = func() string { return "turn-test" }
	return e
}

func TestNewValidatesDependencies(t *testing.T) {
	t.Parallel()

	if _, err := New(nil, &fakeRegistry{}, newTestTools(), Config{}); err == nil {
		t.Fatal("expected error for nil store")
	}
	if _, err := New(&fakeStore{}, nil, newTestTools(), Config{}); err == nil {
		t.Fatal("expected error for nil registry")
	}
	if _, err := New(&fakeStore{}, &fakeRegistry{}, nil, Config{}); err == nil {
		t.Fatal("expected error for nil tools")
	}
	if _, err := New(&fakeStore{}, &fakeRegistry{}, newTestTools(), Config{Mode: "hybrid"}); !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("New() bad mode error = %v, want ErrValidation", err)
	}
}

func TestParseMode(t *testing.T) {
	t.Parallel()

	cases := map[string]contractx.Mode{
		"":          contractx.ModePlanning,
		"planning":  contractx.ModePlanning,
		" Reactive": contractx.ModeReactive,
	}
	for in, want := range cases {
		got, err := ParseMode(in)
		if err != nil {
			t.Fatalf("ParseMode(%q) error = %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseMode(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestHandleMessageInvalidInput(t *testing.T) {
	t.Parallel()

	for _, mode := range []contractx.Mode{contractx.ModeReactive, contractx.ModePlanning} {
		store := &fakeStore{}
		e := newTestExecutor(t, store, &fakeRegistry{
			decider:     &fakeDecider{},
			planner:     &fakePlanner{},
			synthesizer: &fakeSynthesizer{},
		}, Config{Mode: mode})

		if _, err := e.HandleMessage(context.Background(), "   "); !errors.Is(err, ErrInvalidMessage) {
			t.Fatalf("%s: expected ErrInvalidMessage, got %v", mode, err)
		}
		if len(store.saved) != 0 {
			t.Fatalf("%s: saved %d documents for invalid input", mode, len(store.saved))
		}
	}
}

func TestReactiveTimeQuestion(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	decider := &fakeDecider{actions: []contractx.Action{
		{Kind: contractx.ActionGetCurrentTime},
		{Kind: contractx.ActionFinal, Input: "It is 10:30 PM."},
	}}
	e := newTestExecutor(t, store, &fakeRegistry{decider: decider}, Config{Mode: contractx.ModeReactive})

	reply, err := e.HandleMessage(context.Background(), "What time is it?")
	if err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if reply != "It is 10:30 PM." {
		t.Fatalf("reply = %q", reply)
	}

	if len(decider.reqs) != 2 {
		t.Fatalf("decide calls = %d, want 2", len(decider.reqs))
	}
	if decider.reqs[0].Context != "What time is it?" {
		t.Fatalf("first context = %q, want the bare question", decider.reqs[0].Context)
	}
	wantRecap := "Original question:\nWhat time is it?\n\n" +
		"Things remembered about the user so far:\n{}\n\n" +
		"Tool results so far:\n{\"current_time\":\"Current time is 10:30 PM\"}"
	if decider.reqs[1].Context != wantRecap {
		t.Fatalf("second context = %q, want %q", decider.reqs[1].Context, wantRecap)
	}

	if len(store.saved) != 2 {
		t.Fatalf("saves = %d, want one per step", len(store.saved))
	}
	final := store.doc
	if final.ToolOutputs[statex.SlotCurrentTime] != "Current time is 10:30 PM" {
		t.Fatalf("tool_outputs = %#v", final.ToolOutputs)
	}
	if final.UserInput != "What time is it?" {
		t.Fatalf("user_input = %q", final.UserInput)
	}
}

func TestReactiveRememberLastWriteWins(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	decider := &fakeDecider{actions: []contractx.Action{
		{Kind: contractx.ActionRemember, Key: "name", Value: "Alice"},
		{Kind: contractx.ActionRemember, Key: "name", Value: "Alicia"},
		{Kind: contractx.ActionFinal, Input: "Noted, Alicia."},
	}}
	e := newTestExecutor(t, store, &fakeRegistry{decider: decider}, Config{Mode: contractx.ModeReactive})

	if _, err := e.HandleMessage(context.Background(), "Call me Alicia, not Alice."); err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if got := store.doc.UserProfile["name"]; got != "Alicia" {
		t.Fatalf("name = %q, want Alicia", got)
	}
	if len(store.doc.UserProfile) != 1 {
		t.Fatalf("profile = %#v", store.doc.UserProfile)
	}
	if len(store.saved) != 3 {
		t.Fatalf("saves = %d, want 3", len(store.saved))
	}
}

func TestReactiveResetsToolOutputsEachTurn(t *testing.T) {
	t.Parallel()

	stale := statex.NewDocument()
	stale.Remember("name", "Alice")
	stale.SetToolOutput(statex.SlotCalculation, "42")
	store := &fakeStore{doc: stale}
	decider := &fakeDecider{actions: []contractx.Action{
		{Kind: contractx.ActionFinal, Input: "Hi Alice."},
	}}
	e := newTestExecutor(t, store, &fakeRegistry{decider: decider}, Config{Mode: contractx.ModeReactive})

	if _, err := e.HandleMessage(context.Background(), "hello"); err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	seen := decider.reqs[0].Memory
	if len(seen.ToolOutputs) != 0 {
		t.Fatalf("tool_outputs at turn start = %#v, want empty", seen.ToolOutputs)
	}
	if seen.UserProfile["name"] != "Alice" {
		t.Fatalf("profile lost across turns: %#v", seen.UserProfile)
	}
}

func TestReactiveUnrecognizedActionContinues(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	decider := &fakeDecider{actions: []contractx.Action{
		{Kind: "send_email", Input: "boss@example.com"},
		{Kind: contractx.ActionFinal, Input: "I cannot send email."},
	}}
	e := newTestExecutor(t, store, &fakeRegistry{decider: decider}, Config{Mode: contractx.ModeReactive})

	reply, err := e.HandleMessage(context.Background(), "Email my boss")
	if err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if reply != "I cannot send email." {
		t.Fatalf("reply = %q", reply)
	}
	if store.doc.ToolOutputs[statex.SlotUnrecognizedAction] == "" {
		t.Fatalf("missing diagnostic in tool_outputs: %#v", store.doc.ToolOutputs)
	}
}

func TestReactiveOCRDisabledIsUnrecognized(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	decider := &fakeDecider{actions: []contractx.Action{
		{Kind: contractx.ActionOCRExtractText, Input: "/tmp/receipt.png"},
		{Kind: contractx.ActionFinal, Input: "OCR is not available."},
	}}
	e := newTestExecutor(t, store, &fakeRegistry{decider: decider}, Config{Mode: contractx.ModeReactive})

	if _, err := e.HandleMessage(context.Background(), "Read /tmp/receipt.png"); err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if _, ok := store.doc.ToolOutputs[statex.SlotOCRText]; ok {
		t.Fatal("ocr_text written while OCR is disabled")
	}
	if store.doc.ToolOutputs[statex.SlotUnrecognizedAction] == "" {
		t.Fatal("missing diagnostic for disabled OCR")
	}
}

func TestReactiveStepLimit(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	decider := &fakeDecider{actions: []contractx.Action{{Kind: contractx.ActionGetCurrentTime}}}
	e := newTestExecutor(t, store, &fakeRegistry{decider: decider}, Config{Mode: contractx.ModeReactive, MaxSteps: 3})

	_, err := e.HandleMessage(context.Background(), "What time is it?")
	if !errors.Is(err, contractx.ErrStepLimit) {
		t.Fatalf("HandleMessage() error = %v, want ErrStepLimit", err)
	}
	if len(decider.reqs) != 3 {
		t.Fatalf("decide calls = %d, want 3", len(decider.reqs))
	}
	if len(store.saved) != 3 {
		t.Fatalf("saves = %d, want 3", len(store.saved))
	}
}

func TestReactiveDecisionErrorKeepsEarlierSaves(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	decider := &failAfterDecider{
		first: contractx.Action{Kind: contractx.ActionRemember, Key: "name", Value: "Alice"},
		err:   fmt.Errorf("%w: reply is not a JSON object", contractx.ErrDecisionParse),
	}
	e := newTestExecutor(t, store, &fakeRegistry{decider: decider}, Config{Mode: contractx.ModeReactive})

	_, err := e.HandleMessage(context.Background(), "I'm Alice")
	if !errors.Is(err, contractx.ErrDecisionParse) {
		t.Fatalf("HandleMessage() error = %v, want ErrDecisionParse", err)
	}
	if store.doc == nil || store.doc.UserProfile["name"] != "Alice" {
		t.Fatalf("remembered fact lost: %#v", store.doc)
	}
}

type failAfterDecider struct {
	first contractx.Action
	err   error
	calls int
}

func (f *failAfterDecider) Decide(ctx context.Context, req contractx.DecisionRequest) (contractx.Action, error) {
	f.calls++
	if f.calls == 1 {
		return f.first, nil
	}
	return contractx.Action{}, f.err
}

func TestReactiveStorageFormatError(t *testing.T) {
	t.Parallel()

	store := &fakeStore{loadErr: fmt.Errorf("%w: unexpected end of JSON input", statex.ErrStorageFormat)}
	e := newTestExecutor(t, store, &fakeRegistry{decider: &fakeDecider{}}, Config{Mode: contractx.ModeReactive})

	if _, err := e.HandleMessage(context.Background(), "hello"); !errors.Is(err, contractx.ErrStorageFormat) {
		t.Fatalf("HandleMessage() error = %v, want ErrStorageFormat", err)
	}
}

func TestPlanningNameAndArithmetic(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	planner := &fakePlanner{plan: contractx.Plan{Steps: []contractx.Action{
		{Kind: contractx.ActionRemember, Key: "name", Value: "Alice"},
		{Kind: contractx.ActionCalculate, Input: "2+2"},
		{Kind: contractx.ActionFinal},
	}}}
	synth := &fakeSynthesizer{answer: "Nice to meet you, Alice. 2 + 2 = 4.", store: store}
	e := newTestExecutor(t, store, &fakeRegistry{planner: planner, synthesizer: synth}, Config{Mode: contractx.ModePlanning})

	reply, err := e.HandleMessage(context.Background(), "My name is Alice, what is 2+2?")
	if err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if reply != "Nice to meet you, Alice. 2 + 2 = 4." {
		t.Fatalf("reply = %q", reply)
	}
	if planner.calls != 1 || synth.calls != 1 {
		t.Fatalf("planner calls = %d, synthesizer calls = %d, want 1 each", planner.calls, synth.calls)
	}
	if synth.savedAtRun != 1 {
		t.Fatalf("saves before synthesis = %d, want 1", synth.savedAtRun)
	}
	if synth.seen.ToolOutputs[statex.SlotCalculation] != "4" {
		t.Fatalf("synthesizer saw tool_outputs = %#v", synth.seen.ToolOutputs)
	}
	if store.doc.UserProfile["name"] != "Alice" {
		t.Fatalf("profile = %#v", store.doc.UserProfile)
	}
	if store.doc.UserInput != "" {
		t.Fatalf("planning mode wrote user_input = %q", store.doc.UserInput)
	}
}

func TestPlanningStopsAtFirstFinal(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	planner := &fakePlanner{plan: contractx.Plan{Steps: []contractx.Action{
		{Kind: contractx.ActionCalculate, Input: "1+1"},
		{Kind: contractx.ActionFinal},
		{Kind: contractx.ActionRemember, Key: "late", Value: "never"},
		{Kind: contractx.ActionGetCurrentTime},
	}}}
	synth := &fakeSynthesizer{answer: "2"}
	e := newTestExecutor(t, store, &fakeRegistry{planner: planner, synthesizer: synth}, Config{Mode: contractx.ModePlanning})

	if _, err := e.HandleMessage(context.Background(), "1+1?"); err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if _, ok := store.doc.UserProfile["late"]; ok {
		t.Fatal("step after final was executed")
	}
	if _, ok := store.doc.ToolOutputs[statex.SlotCurrentTime]; ok {
		t.Fatal("tool after final was executed")
	}
}

func TestPlanningSkipsUnrecognizedStep(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	planner := &fakePlanner{plan: contractx.Plan{Steps: []contractx.Action{
		{Kind: "browse_web", Input: "weather"},
		{Kind: contractx.ActionCalculate, Input: "3*3"},
		{Kind: contractx.ActionFinal},
	}}}
	synth := &fakeSynthesizer{answer: "9"}
	e := newTestExecutor(t, store, &fakeRegistry{planner: planner, synthesizer: synth}, Config{Mode: contractx.ModePlanning})

	if _, err := e.HandleMessage(context.Background(), "weather and 3*3"); err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if store.doc.ToolOutputs[statex.SlotCalculation] != "9" {
		t.Fatalf("tool_outputs = %#v", store.doc.ToolOutputs)
	}
	if store.doc.ToolOutputs[statex.SlotUnrecognizedAction] == "" {
		t.Fatal("missing diagnostic for unrecognized step")
	}
}

func TestPlanningSynthesisFailureKeepsMemory(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	planner := &fakePlanner{plan: contractx.Plan{Steps: []contractx.Action{
		{Kind: contractx.ActionRemember, Key: "city", Value: "Lisbon"},
		{Kind: contractx.ActionFinal},
	}}}
	synth := &fakeSynthesizer{err: fmt.Errorf("%w: synthesize invoke: timeout", contractx.ErrProvider)}
	e := newTestExecutor(t, store, &fakeRegistry{planner: planner, synthesizer: synth}, Config{Mode: contractx.ModePlanning})

	_, err := e.HandleMessage(context.Background(), "I live in Lisbon")
	if !errors.Is(err, contractx.ErrProvider) {
		t.Fatalf("HandleMessage() error = %v, want ErrProvider", err)
	}
	if store.doc == nil || store.doc.UserProfile["city"] != "Lisbon" {
		t.Fatalf("profile update lost: %#v", store.doc)
	}
}

func TestPlanningPlannerErrorSavesNothing(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	planner := &fakePlanner{err: fmt.Errorf("%w: plan has no final step", contractx.ErrDecisionParse)}
	synth := &fakeSynthesizer{}
	e := newTestExecutor(t, store, &fakeRegistry{planner: planner, synthesizer: synth}, Config{Mode: contractx.ModePlanning})

	_, err := e.HandleMessage(context.Background(), "hello")
	if !errors.Is(err, contractx.ErrDecisionParse) {
		t.Fatalf("HandleMessage() error = %v, want ErrDecisionParse", err)
	}
	if len(store.saved) != 0 || synth.calls != 0 {
		t.Fatalf("saves = %d, synthesizer calls = %d, want 0", len(store.saved), synth.calls)
	}
}

func TestPlanningResetsToolOutputsAtLoad(t *testing.T) {
	t.Parallel()

	stale := statex.NewDocument()
	stale.SetToolOutput(statex.SlotCurrentTime, "Current time is 9:00 AM")
	store := &fakeStore{doc: stale}
	planner := &fakePlanner{plan: contractx.Plan{Steps: []contractx.Action{{Kind: contractx.ActionFinal}}}}
	synth := &fakeSynthesizer{answer: "Hello."}
	e := newTestExecutor(t, store, &fakeRegistry{planner: planner, synthesizer: synth}, Config{Mode: contractx.ModePlanning})

	if _, err := e.HandleMessage(context.Background(), "hi"); err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if len(planner.seen.ToolOutputs) != 0 {
		t.Fatalf("planner saw stale tool_outputs: %#v", planner.seen.ToolOutputs)
	}
}
