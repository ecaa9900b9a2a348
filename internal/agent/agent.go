package agent

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/m2tx/city_agent/internal/logging"
	"github.com/m2tx/city_agent/internal/model"
	"github.com/m2tx/city_agent/internal/repository"
	"github.com/sirupsen/logrus"
	"google.golang.org/genai"
)

// maxFunctionCallRounds bounds how many consecutive tool round trips one prompt may trigger.
const maxFunctionCallRounds = 10

var ErrTooManyFunctionCalls = errors.New("agent: too many consecutive function calls")

type Agent struct {
	client            *genai.Client
	model             string
	systemInstruction string
	functionsMap      map[string]*FunctionDeclaration
	sessionRepository repository.SessionRepository
	log               *logrus.Entry
}

type FunctionDeclaration struct {
	Name             string
	Description      string
	ParametersSchema any
	ResponseSchema   any
	FunctionCall     FunctionCallFn
}

type FunctionCallFn func(ctx context.Context, args map[string]any) (map[string]any, error)

func New(client *genai.Client, model string, systemInstruction string) *Agent {
	return &Agent{
		client:            client,
		model:             model,
		systemInstruction: systemInstruction,
		functionsMap:      make(map[string]*FunctionDeclaration),
		log:               logging.Module("agent"),
	}
}

func NewWithRepo(client *genai.Client, model string, systemInstruction string, sessionRepository repository.SessionRepository) *Agent {
	a := New(client, model, systemInstruction)
	a.sessionRepository = sessionRepository
	return a
}

func (a *Agent) AddFunctionCall(functionDeclaration *FunctionDeclaration) error {
	if functionDeclaration == nil {
		return fmt.Errorf("function declaration cannot be nil")
	}

	if functionDeclaration.Name == "" {
		return fmt.Errorf("function name cannot be empty")
	}

	if functionDeclaration.FunctionCall == nil {
		return fmt.Errorf("function call implementation cannot be nil")
	}

	a.functionsMap[functionDeclaration.Name] = functionDeclaration

	return nil
}

// Model returns the model identifier the agent talks to.
func (a *Agent) Model() string {
	return a.model
}

// Tools returns the registered function names in sorted order.
func (a *Agent) Tools() []string {
	names := make([]string, 0, len(a.functionsMap))
	for name := range a.functionsMap {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Call invokes a registered function directly, bypassing the model.
func (a *Agent) Call(ctx context.Context, functionName string, args map[string]any) (map[string]any, error) {
	return a.handleFunctionCall(ctx, functionName, args)
}

func (a *Agent) getTools() []*genai.Tool {
	functions := []*genai.FunctionDeclaration{}

	for _, name := range a.Tools() {
		fd := a.functionsMap[name]
		functions = append(functions, &genai.FunctionDeclaration{
			Name:                 fd.Name,
			Description:          fd.Description,
			ParametersJsonSchema: fd.ParametersSchema,
			ResponseJsonSchema:   fd.ResponseSchema,
		})
	}

	return []*genai.Tool{
		{
			FunctionDeclarations: functions,
		},
	}
}

func (a *Agent) getChat(ctx context.Context, sessionID string) (*genai.Chat, error) {
	initialHistory := []*genai.Content{}
	if a.sessionRepository != nil {
		stored, err := a.sessionRepository.Load(ctx, sessionID)
		if err != nil {
			return nil, fmt.Errorf("getChat: load history: %w", err)
		}
		if stored != nil {
			initialHistory = toGenAIContents(stored)
		}
	}

	chat, err := a.client.Chats.Create(ctx, a.model, &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: a.systemInstruction}},
		},
		Tools: a.getTools(),
	}, initialHistory)
	if err != nil {
		return nil, err
	}

	return chat, nil
}

// Send delivers a prompt to the session's chat, runs every function call the
// model requests and returns the turns produced for this prompt.
func (a *Agent) Send(ctx context.Context, sessionID string, prompt string) ([]model.Content, error) {
	chat, err := a.getChat(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	resp, err := chat.SendMessage(ctx, genai.Part{Text: prompt})
	if err != nil {
		return nil, fmt.Errorf("send: %w", err)
	}

	contents, err := a.runFunctionCalls(ctx, chat, resp)
	if err != nil {
		return nil, err
	}

	if a.sessionRepository != nil {
		if saveErr := a.sessionRepository.Save(ctx, sessionID, toModelContents(chat.History(true))); saveErr != nil {
			a.log.WithField("session_id", sessionID).Warnf("failed to save session: %v", saveErr)
		}
	}

	return toModelContents(contents), nil
}

func (a *Agent) ClearSession(ctx context.Context, sessionID string) {
	if a.sessionRepository != nil {
		if err := a.sessionRepository.Delete(ctx, sessionID); err != nil {
			a.log.WithField("session_id", sessionID).Warnf("failed to delete session: %v", err)
		}
	}
}

func (a *Agent) GetSession(ctx context.Context, sessionID string) ([]model.Content, error) {
	if a.sessionRepository == nil {
		return []model.Content{}, nil
	}

	stored, err := a.sessionRepository.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("GetSession: %w", err)
	}

	if stored == nil {
		return []model.Content{}, nil
	}

	return stored, nil
}

func (a *Agent) handleFunctionCall(ctx context.Context, functionName string, args map[string]any) (map[string]any, error) {
	fd, exists := a.functionsMap[functionName]
	if !exists {
		return nil, fmt.Errorf("function %s not found", functionName)
	}

	start := time.Now()
	resp, err := fd.FunctionCall(ctx, args)
	a.log.WithFields(logrus.Fields{
		"function": functionName,
		"args":     args,
		"status":   resp["status"],
		"elapsed":  time.Since(start).String(),
	}).Info("function call")

	return resp, err
}

// runFunctionCalls answers the model's function calls until it replies
// without any, at most maxFunctionCallRounds times.
func (a *Agent) runFunctionCalls(ctx context.Context, chat *genai.Chat, resp *genai.GenerateContentResponse) ([]*genai.Content, error) {
	var contents []*genai.Content

	for round := 0; ; round++ {
		turn, calls := a.collectCalls(ctx, resp)
		contents = append(contents, turn...)
		if len(calls) == 0 {
			return contents, nil
		}

		if round >= maxFunctionCallRounds {
			return nil, ErrTooManyFunctionCalls
		}

		var err error
		resp, err = chat.SendMessage(ctx, calls...)
		if err != nil {
			return nil, fmt.Errorf("send function responses: %w", err)
		}
	}
}

// collectCalls returns the candidate contents of resp and the function
// responses for every call they contain.
func (a *Agent) collectCalls(ctx context.Context, resp *genai.GenerateContentResponse) ([]*genai.Content, []genai.Part) {
	var (
		contents  []*genai.Content
		responses []genai.Part
	)

	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		contents = append(contents, candidate.Content)

		for _, part := range candidate.Content.Parts {
			if part == nil || part.FunctionCall == nil {
				continue
			}

			call := part.FunctionCall
			result, err := a.handleFunctionCall(ctx, call.Name, call.Args)
			if err != nil {
				// The model sees the failure and can recover on its own.
				result = map[string]any{"error": err.Error()}
			}

			responses = append(responses, genai.Part{
				FunctionResponse: &genai.FunctionResponse{
					ID:       call.ID,
					Name:     call.Name,
					Response: result,
				},
			})
		}
	}

	return contents, responses
}
