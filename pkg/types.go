package pkg

import (
	"fmt"
	"time"
)

// Turn is one exchange within a conversation: the patient's input and the
// assistant's reply. Assistant is nil while the reply is still being
// generated; only the most recent turn of a conversation may be in that
// state.
type Turn struct {
	User      string  `json:"user"`
	Assistant *string `json:"assistant,omitempty"`
}

// Answered reports whether the assistant reply for this turn has arrived.
func (t Turn) Answered() bool { return t.Assistant != nil }

// Conversation is an ordered sequence of turns with metadata. Conversations
// are owned by the session store and must only be mutated through it.
type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	Turns     []Turn    `json:"turns"`
}

// ConversationSummary is returned when listing conversations.
type ConversationSummary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	TurnCount int       `json:"turn_count"`
	Active    bool      `json:"active"`
}

// PatientRecord holds the data submitted through the intake form.  Records
// are append-only; they are never linked to a conversation.
type PatientRecord struct {
	Name      string  `json:"name"`
	Age       int     `json:"age"`
	Gender    string  `json:"gender"`
	Height    float64 `json:"height_cm"`
	Weight    float64 `json:"weight_kg"`
	VisitDate string  `json:"visit_date"`

	Conditions  []string `json:"medical_conditions"`
	Medications string   `json:"medications"`
	Allergies   string   `json:"allergies"`
	Symptoms    string   `json:"symptoms"`

	Temperature      float64 `json:"temperature"`
	HeartRate        int     `json:"heart_rate"`
	BPSystolic       int     `json:"bp_systolic"`
	BPDiastolic      int     `json:"bp_diastolic"`
	OxygenSaturation int     `json:"oxygen_saturation"`
}

// BloodPressure renders the systolic/diastolic pair the way it appears in
// prompts and reports, e.g. "120/80".
func (p PatientRecord) BloodPressure() string {
	return fmt.Sprintf("%d/%d", p.BPSystolic, p.BPDiastolic)
}

// ChatRequest is the body of a post-message request.
type ChatRequest struct {
	Content string `json:"content"`
	Kind    string `json:"kind,omitempty"`
}

// SpecialRequest asks for a follow-up response over the active
// conversation, e.g. clinical reasoning or literature references.
type SpecialRequest struct {
	Kind string `json:"kind"`
}

// FeedbackRequest carries free-text feedback to be relayed by email.
type FeedbackRequest struct {
	Text string `json:"text"`
}

// AnalysisResponse is returned once a diagnostic analysis has been
// generated for a patient record.
type AnalysisResponse struct {
	Analysis  string `json:"analysis"`
	Emergency bool   `json:"emergency"`
}
