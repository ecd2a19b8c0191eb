package decision

import (
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/memagent/agent/contract"
	"github.com/tidwall/gjson"
)

// parseObject accepts a reply that is exactly one JSON object once
// surrounding whitespace is trimmed.
func parseObject(raw string) (gjson.Result, error) {
	body := strings.TrimSpace(raw)
	if body == "" {
		return gjson.Result{}, fmt.Errorf("%w: empty reply", contractx.ErrDecisionParse)
	}
	if !gjson.Valid(body) {
		return gjson.Result{}, fmt.Errorf("%w: reply is not a single JSON value", contractx.ErrDecisionParse)
	}
	res := gjson.Parse(body)
	if !res.IsObject() {
		return gjson.Result{}, fmt.Errorf("%w: reply is not a JSON object", contractx.ErrDecisionParse)
	}
	return res, nil
}

func parseAction(raw string) (contractx.Action, error) {
	res, err := parseObject(raw)
	if err != nil {
		return contractx.Action{}, err
	}
	return actionFrom(res, true)
}

func parsePlan(raw string) (contractx.Plan, error) {
	res, err := parseObject(raw)
	if err != nil {
		return contractx.Plan{}, err
	}

	steps := res.Get("plan")
	if !steps.IsArray() {
		return contractx.Plan{}, fmt.Errorf("%w: reply has no plan array", contractx.ErrDecisionParse)
	}

	var (
		plan     contractx.Plan
		hasFinal bool
	)
	for i, step := range steps.Array() {
		if !step.IsObject() {
			return contractx.Plan{}, fmt.Errorf("%w: plan step %d is not an object", contractx.ErrDecisionParse, i)
		}
		action, err := actionFrom(step, false)
		if err != nil {
			return contractx.Plan{}, fmt.Errorf("plan step %d: %w", i, err)
		}
		hasFinal = hasFinal || action.IsFinal()
		plan.Steps = append(plan.Steps, action)
	}
	if !hasFinal {
		return contractx.Plan{}, fmt.Errorf("%w: plan has no final step", contractx.ErrDecisionParse)
	}

	return plan, nil
}

func actionFrom(obj gjson.Result, requireFinalInput bool) (contractx.Action, error) {
	kind := obj.Get("action")
	if kind.Type != gjson.String || strings.TrimSpace(kind.Str) == "" {
		return contractx.Action{}, fmt.Errorf("%w: missing string action", contractx.ErrDecisionParse)
	}

	action := contractx.Action{
		Kind:  contractx.ActionKind(strings.TrimSpace(kind.Str)),
		Key:   strings.TrimSpace(scalar(obj.Get("key"))),
		Value: scalar(obj.Get("value")),
		Input: scalar(obj.Get("input")),
	}

	switch action.Kind {
	case contractx.ActionRemember:
		if action.Key == "" {
			return contractx.Action{}, fmt.Errorf("%w: remember requires key", contractx.ErrDecisionParse)
		}
	case contractx.ActionCalculate, contractx.ActionOCRExtractText:
		if strings.TrimSpace(action.Input) == "" {
			return contractx.Action{}, fmt.Errorf("%w: %s requires input", contractx.ErrDecisionParse, action.Kind)
		}
	case contractx.ActionFinal:
		if requireFinalInput && strings.TrimSpace(action.Input) == "" {
			return contractx.Action{}, fmt.Errorf("%w: final requires input", contractx.ErrDecisionParse)
		}
	}

	return action, nil
}

// scalar renders any JSON value as the string the memory document stores.
func scalar(r gjson.Result) string {
	switch r.Type {
	case gjson.Null:
		return ""
	case gjson.String:
		return r.Str
	case gjson.JSON:
		return r.Raw
	default:
		return r.String()
	}
}
