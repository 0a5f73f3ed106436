package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/taller-pro/internal/application/dto"
	"github.com/tu-usuario/taller-pro/internal/application/ports"
)

// Verificar en tiempo de compilación que AnthropicService implementa LLMService.
var _ ports.LLMService = (*AnthropicService)(nil)

const (
	anthropicMessagesURL = "https://api.anthropic.com/v1/messages"
	anthropicVersion     = "2023-06-01"
)

// AnthropicService adaptador que implementa LLMService usando la API REST de Anthropic (Claude).
// Usa net/http de la librería estándar de Go; no requiere el SDK oficial.
// Es el adaptador alternativo a Gemini: se elige por configuración (AI_PROVIDER).
type AnthropicService struct {
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewAnthropicService construye el adaptador.
// model suele ser "claude-3-5-haiku-20241022".
// Si apiKey está vacío las llamadas devuelven error descriptivo en lugar de panic.
func NewAnthropicService(apiKey, model string) *AnthropicService {
	return &AnthropicService{
		apiKey: apiKey,
		model:  model,
		httpClient: &http.Client{
			// Timeout de red de 45 s; el use case impone además su propio context.WithTimeout.
			Timeout: 45 * time.Second,
		},
	}
}

// ── Estructuras internas del protocolo Anthropic Messages API ─────────────────

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string                  `json:"role"`
	Content []anthropicContentBlock `json:"content"`
}

type anthropicContentBlock struct {
	Type   string           `json:"type"` // "text" o "image"
	Text   string           `json:"text,omitempty"`
	Source *anthropicSource `json:"source,omitempty"`
}

type anthropicSource struct {
	Type      string `json:"type"` // "base64"
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// ── Implementación del puerto ─────────────────────────────────────────────────

// ExtractInvoice envía la foto de la factura como bloque de imagen base64 y
// devuelve los datos sugeridos para el formulario de compra.
func (s *AnthropicService) ExtractInvoice(
	ctx context.Context,
	imageBase64 string,
	mimeType string,
) (*dto.AIInvoiceExtractionDTO, error) {
	message := anthropicMessage{
		Role: "user",
		Content: []anthropicContentBlock{
			{
				Type: "image",
				Source: &anthropicSource{
					Type:      "base64",
					MediaType: mimeType,
					Data:      imageBase64,
				},
			},
			{Type: "text", Text: "Extrae los datos de esta factura de proveedor."},
		},
	}

	rawJSON, err := s.complete(ctx, invoiceSystemPrompt, []anthropicMessage{message}, 2048)
	if err != nil {
		return nil, err
	}

	var extraction llmInvoicePayload
	if err := json.Unmarshal([]byte(rawJSON), &extraction); err != nil {
		return nil, fmt.Errorf("AI: respuesta del modelo no es JSON válido: %w (respuesta: %s)", err, rawJSON)
	}

	result := &dto.AIInvoiceExtractionDTO{
		SupplierName:    extraction.SupplierName,
		InvoiceRef:      extraction.InvoiceRef,
		Date:            extraction.Date,
		ConfidenceScore: clampConfidence(extraction.ConfidenceScore),
	}
	for _, line := range extraction.Lines {
		result.Lines = append(result.Lines, dto.AIInvoiceLineDTO{
			Description: line.Description,
			Quantity:    decimal.NewFromFloat(line.Quantity),
			UnitCost:    decimal.NewFromFloat(line.UnitCost),
		})
	}
	return result, nil
}

// SuggestDiagnosis envía los datos del vehículo y los síntomas al modelo
// y devuelve el diagnóstico preliminar sugerido.
func (s *AnthropicService) SuggestDiagnosis(
	ctx context.Context,
	req dto.AISuggestDiagnosisRequest,
) (*dto.AIDiagnosisDTO, error) {
	userText := fmt.Sprintf(
		"Vehículo: %s %s %d\nKilometraje: %d km\nSíntomas reportados: %s",
		req.VehicleBrand, req.VehicleModel, req.VehicleYear, req.Mileage, req.Symptoms,
	)
	message := anthropicMessage{
		Role:    "user",
		Content: []anthropicContentBlock{{Type: "text", Text: userText}},
	}

	rawJSON, err := s.complete(ctx, diagnosisSystemPrompt, []anthropicMessage{message}, 512)
	if err != nil {
		return nil, err
	}

	var diagnosis llmDiagnosisPayload
	if err := json.Unmarshal([]byte(rawJSON), &diagnosis); err != nil {
		return nil, fmt.Errorf("AI: respuesta del modelo no es JSON válido: %w (respuesta: %s)", err, rawJSON)
	}

	return &dto.AIDiagnosisDTO{
		Diagnosis:       diagnosis.Diagnosis,
		SuggestedChecks: diagnosis.SuggestedChecks,
		ConfidenceScore: clampConfidence(diagnosis.ConfidenceScore),
		Reasoning:       diagnosis.Reasoning,
	}, nil
}

// complete envía el request a la Messages API y devuelve el texto de la respuesta.
// A diferencia de Gemini, Claude no garantiza JSON puro, así que se pasa por
// extractJSON para tolerar bloques de markdown.
func (s *AnthropicService) complete(ctx context.Context, system string, messages []anthropicMessage, maxTokens int) (string, error) {
	if s.apiKey == "" {
		return "", fmt.Errorf("AI: ANTHROPIC_API_KEY no configurado")
	}

	payload := anthropicRequest{
		Model:     s.model,
		MaxTokens: maxTokens,
		System:    system,
		Messages:  messages,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("AI: serializar request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, anthropicMessagesURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("AI: crear HTTP request: %w", err)
	}
	req.Header.Set("content-type", "application/json")
	req.Header.Set("x-api-key", s.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("AI: timeout o cancelación: %w", ctx.Err())
		}
		return "", fmt.Errorf("AI: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, 256*1024))
	if err != nil {
		return "", fmt.Errorf("AI: leer respuesta: %w", err)
	}

	var claudeResp anthropicResponse
	if err := json.Unmarshal(rawBody, &claudeResp); err != nil {
		return "", fmt.Errorf("AI: deserializar respuesta Claude: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		if claudeResp.Error != nil {
			return "", fmt.Errorf("AI: Claude error %s: %s", claudeResp.Error.Type, claudeResp.Error.Message)
		}
		return "", fmt.Errorf("AI: Claude HTTP %d", resp.StatusCode)
	}
	if len(claudeResp.Content) == 0 {
		return "", fmt.Errorf("AI: Claude devolvió respuesta vacía")
	}

	return extractJSON(claudeResp.Content[0].Text), nil
}

var jsonBlockRe = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*\\})\\s*```")

// extractJSON tolera que el modelo envuelva el JSON en un bloque de markdown.
func extractJSON(text string) string {
	text = strings.TrimSpace(text)
	if m := jsonBlockRe.FindStringSubmatch(text); len(m) == 2 {
		return m[1]
	}
	return text
}
