package core

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/AnesSym/medical-test/internal/llm"
	"github.com/AnesSym/medical-test/pkg"
)

// PromptKind selects the system template and generation parameters for a
// completion request.
type PromptKind string

const (
	KindBasic             PromptKind = "basic"
	KindTriage            PromptKind = "triage"
	KindDiagnostic        PromptKind = "diagnostic"
	KindClinicalReasoning PromptKind = "clinical_reasoning"
	KindMedicalLiterature PromptKind = "medical_literature"
)

// ErrUnknownKind is returned for a prompt kind outside the fixed set.
var ErrUnknownKind = errors.New("core: unknown prompt kind")

// ParseKind validates a wire-level kind string. An empty string defaults
// to triage, the kind driving the main chat surface.
func ParseKind(s string) (PromptKind, error) {
	if s == "" {
		return KindTriage, nil
	}
	switch k := PromptKind(s); k {
	case KindBasic, KindTriage, KindDiagnostic, KindClinicalReasoning, KindMedicalLiterature:
		return k, nil
	}
	return "", errors.Wrap(ErrUnknownKind, s)
}

// Special reports whether the kind is a follow-up over an existing
// conversation rather than a direct reply to patient input.
func (k PromptKind) Special() bool {
	return k == KindClinicalReasoning || k == KindMedicalLiterature
}

// Streams reports whether responses for this kind are delivered as a
// fragment stream.
func (k PromptKind) Streams() bool {
	return k == KindTriage || k.Special()
}

// GenerationParams returns the fixed generation parameters for a kind.
func GenerationParams(kind PromptKind) llm.Params {
	switch kind {
	case KindTriage:
		return llm.Params{
			Model:       "llama-3.3-70b-versatile",
			Temperature: 0.4,
			MaxTokens:   1024,
			TopP:        0.95,
		}
	case KindDiagnostic:
		return llm.Params{Model: "llama3-70b-8192", Temperature: 0.3, MaxTokens: 500, TopP: 1}
	case KindClinicalReasoning, KindMedicalLiterature:
		return llm.Params{Model: "llama3-70b-8192", Temperature: 0.5, MaxTokens: 1024, TopP: 1}
	default:
		return llm.Params{Model: "llama3-70b-8192", Temperature: 0.5, MaxTokens: 500, TopP: 1}
	}
}

// Assemble builds the ordered message list for a chat completion: the
// system template for kind first, the optional patient context as a second
// system message, then one user and (when present) one assistant message
// per prior turn in chronological order, and the current input last.
//
// Only the turn currently being answered may contribute a lone user
// message, and only as the entry directly before the current input.
func Assemble(kind PromptKind, history []pkg.Turn, patient *pkg.PatientRecord, input string) []llm.Message {
	system := BasicAssistantPrompt
	if kind == KindTriage {
		system = TriagePrompt
	}
	messages := []llm.Message{{Role: "system", Content: system}}
	if patient != nil {
		messages = append(messages, llm.Message{Role: "system", Content: PatientContext(*patient)})
	}
	messages = appendHistory(messages, history)
	return append(messages, llm.Message{Role: "user", Content: input})
}

// AssembleDiagnostic builds the two-message analysis request for an intake
// record: the diagnostic system prompt plus the interpolated template.
func AssembleDiagnostic(rec pkg.PatientRecord) []llm.Message {
	prompt := fmt.Sprintf(DiagnosticTemplate,
		rec.Age,
		rec.Gender,
		rec.Symptoms,
		strings.Join(rec.Conditions, ", "),
		rec.Medications,
		rec.Allergies,
		rec.Temperature,
		rec.HeartRate,
		rec.BloodPressure(),
		rec.OxygenSaturation,
	)
	return []llm.Message{
		{Role: "system", Content: DiagnosticPrompt},
		{Role: "user", Content: prompt},
	}
}

// AssembleSpecial builds a follow-up request over the conversation so far.
// History is filtered down to answered turns whose reply is not itself a
// summary block, then the canned follow-up prompt is appended as the final
// user message.
func AssembleSpecial(kind PromptKind, history []pkg.Turn) []llm.Message {
	label := "clinical reasoning"
	if kind == KindMedicalLiterature {
		label = "medical literature"
	}
	messages := []llm.Message{{Role: "system", Content: fmt.Sprintf(SpecialResponsePrompt, label)}}
	for _, t := range history {
		if !t.Answered() || strings.Contains(*t.Assistant, "Summary") {
			continue
		}
		messages = append(messages,
			llm.Message{Role: "user", Content: t.User},
			llm.Message{Role: "assistant", Content: *t.Assistant},
		)
	}
	return append(messages, llm.Message{Role: "user", Content: specialPrompts[kind]})
}

// PatientContext interpolates an intake record into the context template.
func PatientContext(rec pkg.PatientRecord) string {
	return fmt.Sprintf(PatientContextTemplate,
		rec.Name,
		rec.Age,
		rec.Gender,
		rec.BloodPressure(),
		rec.HeartRate,
		rec.Temperature,
		rec.Symptoms,
	)
}

func appendHistory(messages []llm.Message, history []pkg.Turn) []llm.Message {
	for _, t := range history {
		messages = append(messages, llm.Message{Role: "user", Content: t.User})
		if t.Answered() {
			messages = append(messages, llm.Message{Role: "assistant", Content: *t.Assistant})
		}
	}
	return messages
}
