package core

import (
	"context"

	"github.com/AnesSym/medical-test/internal/llm"
	"github.com/AnesSym/medical-test/pkg"
)

// ChatService orchestrates completions between the patient and the
// external model: it assembles the message list for a prompt kind, runs
// the completion (streaming or blocking per kind), and feeds incremental
// buffer snapshots to the caller's update sink.
type ChatService struct {
	LLM llm.Client
}

// NewChatService constructs a ChatService over the given completion client.
func NewChatService(client llm.Client) *ChatService {
	return &ChatService{LLM: client}
}

// Respond generates the assistant reply to the given input. history must
// not include the turn being answered; it is appended as the final user
// message by the assembler. For streaming kinds onUpdate receives buffer
// snapshots with the cursor marker and one final bare buffer; for blocking
// kinds it receives the full text once. onUpdate may be nil.
//
// Errors from the service are not retried and propagate to the caller,
// which is expected to leave the in-flight turn open so the same input can
// be resubmitted.
func (s *ChatService) Respond(ctx context.Context, kind PromptKind, history []pkg.Turn, patient *pkg.PatientRecord, input string, onUpdate func(string)) (string, error) {
	messages := Assemble(kind, history, patient, input)
	return s.run(ctx, kind, messages, onUpdate)
}

// Diagnose runs the one-shot diagnostic analysis for an intake record.
func (s *ChatService) Diagnose(ctx context.Context, rec pkg.PatientRecord) (string, error) {
	return s.LLM.Complete(ctx, AssembleDiagnostic(rec), GenerationParams(KindDiagnostic))
}

// Special streams a follow-up response (clinical reasoning or medical
// literature) over the conversation so far.
func (s *ChatService) Special(ctx context.Context, kind PromptKind, history []pkg.Turn, onUpdate func(string)) (string, error) {
	return s.run(ctx, kind, AssembleSpecial(kind, history), onUpdate)
}

func (s *ChatService) run(ctx context.Context, kind PromptKind, messages []llm.Message, onUpdate func(string)) (string, error) {
	params := GenerationParams(kind)
	if !kind.Streams() {
		text, err := s.LLM.Complete(ctx, messages, params)
		if err != nil {
			return "", err
		}
		if onUpdate != nil {
			onUpdate(text)
		}
		return text, nil
	}
	stream, err := s.LLM.Stream(ctx, messages, params)
	if err != nil {
		return "", err
	}
	defer stream.Close()
	return Accumulate(stream, onUpdate)
}
