package goals

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/fitware/fitware/internal/telemetry/metrics"
	"github.com/fitware/fitware/internal/telemetry/tracing"
)

//go:generate mockgen -source=$GOFILE -destination=suggest_mocks_test.go -package=goals

const suggestTimeout = 12 * time.Second

type SuggestProfile struct {
	Height       float64 `json:"height"`
	Weight       float64 `json:"weight"`
	FitnessLevel string  `json:"fitness_level"`
}

type SuggestRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Profile     *SuggestProfile `json:"profile"`
}

type Alternative struct {
	Icon         string  `json:"icon"`
	Type         string  `json:"type"`
	Unit         string  `json:"unit"`
	TargetValue  float64 `json:"target_value"`
	TimelineDays int     `json:"timeline_days"`
}

type Suggestion struct {
	Recognized  bool         `json:"recognized"`
	Message     string       `json:"message"`
	Alternative *Alternative `json:"alternative"`
}

type chatCompletionsService interface {
	New(ctx context.Context, params openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

// Suggester produces goal suggestions from free text. The LLM path is best
// effort: any failure there falls back to the keyword table, the endpoint
// itself never fails because of the model.
type Suggester struct {
	chat    chatCompletionsService
	model   string
	metrics *metrics.Manager
}

// NewSuggester talks to any OpenAI-compatible chat completions API
// (baseURL picks the provider). An empty apiKey disables the LLM path
// entirely and every request resolves through the fallback table.
func NewSuggester(apiKey, baseURL, model string, metricsManager *metrics.Manager) *Suggester {
	s := &Suggester{
		model:   model,
		metrics: metricsManager,
	}
	if apiKey == "" {
		return s
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(&http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	s.chat = openai.NewClient(opts...).Chat.Completions
	return s
}

func (s *Suggester) Suggest(ctx context.Context, req SuggestRequest) Suggestion {
	ctx, span := tracing.GlobalTracer.Start(ctx, "suggester.suggest")
	defer span.End()

	title := strings.TrimSpace(req.Title)
	desc := strings.TrimSpace(req.Description)

	if isGibberish(title) {
		return Suggestion{
			Recognized: false,
			Message:    "Unknown goal. Please provide a clear description of your fitness goal.",
		}
	}

	if s.chat != nil {
		if suggestion, err := s.askModel(ctx, title, desc, req.Profile); err == nil {
			return *suggestion
		} else {
			log.Warnf("goal suggestion model call failed, using fallback: %s", err)
		}
	}

	s.metrics.CounterSuggestionFallbacks.Inc()
	return fallbackSuggestion(title, desc)
}

func (s *Suggester) askModel(ctx context.Context, title, desc string, profile *SuggestProfile) (_ *Suggestion, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "suggester.askModel")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	ctx, cancel := context.WithTimeout(ctx, suggestTimeout)
	defer cancel()

	resp, err := s.chat.New(ctx, openai.ChatCompletionNewParams{
		Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt(profile)),
			openai.UserMessage(userPrompt(title, desc, profile)),
		}),
		Model:       openai.F(openai.ChatModel(s.model)),
		Temperature: openai.F(0.4),
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("chat completion: no choices")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return nil, fmt.Errorf("chat completion: empty content")
	}

	var parsed struct {
		Icon         string  `json:"icon"`
		Type         string  `json:"type"`
		Unit         string  `json:"unit"`
		TargetValue  float64 `json:"target_value"`
		TimelineDays float64 `json:"timeline_days"`
		Message      string  `json:"message"`
	}
	if err := json.Unmarshal([]byte(extractJSON(content)), &parsed); err != nil {
		return nil, fmt.Errorf("parse model output: %w", err)
	}

	alt := Alternative{
		Icon:         clampString(parsed.Icon, DefaultIcon, 10),
		Type:         clampString(parsed.Type, "Workout", 50),
		Unit:         clampString(parsed.Unit, "min", 20),
		TargetValue:  parsed.TargetValue,
		TimelineDays: int(parsed.TimelineDays),
	}
	if alt.TargetValue <= 0 {
		alt.TargetValue = 30
	}
	if alt.TimelineDays <= 0 {
		alt.TimelineDays = 7
	}

	message := parsed.Message
	if message == "" {
		message = "Suggestion generated based on your title/description."
	}

	return &Suggestion{
		Recognized:  true,
		Message:     message,
		Alternative: &alt,
	}, nil
}

func systemPrompt(profile *SuggestProfile) string {
	var b strings.Builder
	b.WriteString("You are a fitness goal assistant. Given a user's goal title and description, " +
		"generate ONE realistic, measurable goal suggestion. ")

	if profile != nil {
		b.WriteString("IMPORTANT: Personalize the goal based on the user's profile. ")
		switch profile.FitnessLevel {
		case "no_exercise":
			b.WriteString("Since the user is a beginner, suggest LIGHTER and more achievable targets. ")
		case "regular":
			b.WriteString("Since the user exercises regularly, you can suggest more CHALLENGING targets. ")
		case "sometimes":
			b.WriteString("Suggest moderate targets suitable for someone who exercises sometimes. ")
		}
	}

	b.WriteString("Return STRICT JSON only (no markdown) with keys: " +
		"icon (string emoji), type (string), unit (string), target_value (number), " +
		"timeline_days (integer), message (string). " +
		"If the input is unclear, still return a safe generic suggestion.")
	return b.String()
}

func userPrompt(title, desc string, profile *SuggestProfile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Title: %s\nDescription: %s\n", title, desc)

	if profile != nil {
		b.WriteString("\nUser Profile:\n")
		if profile.Height > 0 {
			fmt.Fprintf(&b, "- Height: %.0f cm\n", profile.Height)
		}
		if profile.Weight > 0 {
			fmt.Fprintf(&b, "- Weight: %.1f kg\n", profile.Weight)
		}
		if profile.FitnessLevel != "" {
			labels := map[string]string{
				"no_exercise": "Beginner (doesn't exercise)",
				"sometimes":   "Intermediate (sometimes exercises)",
				"regular":     "Active (exercises 3+ times/week)",
			}
			label, ok := labels[profile.FitnessLevel]
			if !ok {
				label = profile.FitnessLevel
			}
			fmt.Fprintf(&b, "- Fitness Level: %s\n", label)
		}
		b.WriteString("\nPlease tailor the suggestion to this user's fitness level and body metrics.")
	}
	return b.String()
}

var (
	fenceOpenRe  = regexp.MustCompile("^```(?:json)?\\s*")
	fenceCloseRe = regexp.MustCompile("\\s*```$")
	jsonObjectRe = regexp.MustCompile(`(?s)\{.*\}`)
)

// extractJSON digs the JSON object out of model output that may be wrapped
// in markdown fences or surrounded by prose.
func extractJSON(content string) string {
	content = fenceOpenRe.ReplaceAllString(content, "")
	content = strings.TrimSpace(fenceCloseRe.ReplaceAllString(content, ""))
	if m := jsonObjectRe.FindString(content); m != "" {
		return m
	}
	return content
}

func clampString(s, def string, maxLen int) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	runes := []rune(s)
	if len(runes) > maxLen {
		return string(runes[:maxLen])
	}
	return s
}

var (
	letterRe         = regexp.MustCompile(`[a-zA-ZçğıöşüÇĞİÖŞÜ]`)
	consonantRunRe   = regexp.MustCompile(`[bcçdfgğhjklmnprsştvyz]{5,}`)
	gibberishVowels  = "aeiouöüıAEIOUÖÜİ"
	fallbackKeywords = []string{
		"run", "jog", "swim", "cycle", "bike", "workout", "gym",
		"lose", "gain", "calorie", "cardio", "weight", "walk",
	}
)

// "aaaa", "11111", "....." and friends.
func isRepeatedChar(t string) bool {
	runes := []rune(t)
	if len(runes) < 4 {
		return false
	}
	for _, r := range runes[1:] {
		if r != runes[0] {
			return false
		}
	}
	return true
}

// isGibberish rejects obviously meaningless titles before any model call:
// too short, no letters, one repeated character, long consonant runs or a
// vowel ratio too low for a real word.
func isGibberish(title string) bool {
	t := strings.TrimSpace(title)
	if len(t) < 3 {
		return true
	}
	if !letterRe.MatchString(t) {
		return true
	}
	if isRepeatedChar(t) {
		return true
	}

	tl := strings.ToLower(t)
	if consonantRunRe.MatchString(tl) {
		return true
	}

	letters := letterRe.FindAllString(t, -1)
	if len(letters) >= 6 {
		vowelCount := 0
		for _, l := range letters {
			if strings.Contains(gibberishVowels, l) {
				vowelCount++
			}
		}
		if float64(vowelCount)/float64(len(letters)) < 0.28 {
			return true
		}
	}

	if len(strings.Fields(t)) == 1 && len(t) <= 4 {
		for _, k := range fallbackKeywords {
			if strings.Contains(tl, k) {
				return false
			}
		}
		return true
	}

	return false
}

// fallbackSuggestion is the deterministic keyword table used when the model
// is unavailable or returned something unusable.
func fallbackSuggestion(title, desc string) Suggestion {
	combined := strings.ToLower(strings.TrimSpace(title + " " + desc))

	alt := Alternative{Icon: "💪", Type: "Workout", Unit: "min", TargetValue: 30, TimelineDays: 7}

	contains := func(keywords ...string) bool {
		for _, k := range keywords {
			if strings.Contains(combined, k) {
				return true
			}
		}
		return false
	}

	switch {
	case contains("run", "jog", "5k", "10k"):
		alt = Alternative{Icon: "🏃", Type: "Running", Unit: "km", TargetValue: 5, TimelineDays: 7}
	case contains("cycle", "bike", "cycling"):
		alt = Alternative{Icon: "🚲", Type: "Cycling", Unit: "km", TargetValue: 20, TimelineDays: 7}
	case contains("swim", "swimming"):
		alt = Alternative{Icon: "🏊", Type: "Swimming", Unit: "laps", TargetValue: 20, TimelineDays: 7}
	case contains("lose", "weight loss", "fat", "slim"):
		alt = Alternative{Icon: "📉", Type: "Weight Loss", Unit: "kg", TargetValue: 2, TimelineDays: 14}
	case contains("gain", "bulk", "weight gain"):
		alt = Alternative{Icon: "📈", Type: "Weight Gain", Unit: "kg", TargetValue: 2, TimelineDays: 30}
	case contains("calorie", "burn", "cardio"):
		alt = Alternative{Icon: "🔥", Type: "Cardio", Unit: "cal", TargetValue: 200, TimelineDays: 7}
	}

	return Suggestion{
		Recognized:  true,
		Message:     "Suggestion generated based on your title/description.",
		Alternative: &alt,
	}
}
