package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/taller-pro/internal/application/dto"
	"github.com/tu-usuario/taller-pro/internal/application/ports"
)

// Verificar en tiempo de compilación que GeminiService implementa LLMService.
var _ ports.LLMService = (*GeminiService)(nil)

const (
	geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent?key=%s"

	// invoiceSystemPrompt define el rol del modelo y el formato de salida para
	// la lectura de facturas. Usar response_mime_type=application/json obliga a
	// Gemini a devolver JSON puro, sin bloques de markdown que limpiar.
	invoiceSystemPrompt = `Eres un asistente de un taller mecánico en Colombia que digita facturas de proveedores de repuestos.
Dada la foto de una factura, devuelve ÚNICAMENTE un objeto JSON (sin texto adicional) con esta estructura exacta:
{
  "supplier_name": "<nombre del proveedor tal como aparece>",
  "invoice_ref": "<número de la factura>",
  "date": "<fecha de la factura en formato YYYY-MM-DD>",
  "lines": [
    {"description": "<descripción del repuesto>", "quantity": <número>, "unit_cost": <número, costo unitario sin IVA>}
  ],
  "confidence_score": <número decimal entre 0.0 y 1.0>
}

Reglas:
- Incluye una línea por cada repuesto de la factura; omite fletes, descuentos y totales.
- quantity y unit_cost son números, no strings. Usa punto decimal.
- Si un dato no se lee con claridad, déjalo vacío ("" o 0) y baja el confidence_score.
- confidence_score: 0.9–1.0 = lectura nítida, 0.7–0.89 = legible con dudas, <0.7 = foto borrosa.`

	// diagnosisSystemPrompt define el formato para el diagnóstico preliminar.
	diagnosisSystemPrompt = `Eres un mecánico automotriz experto con décadas de experiencia en talleres de Latinoamérica.
Dados los datos de un vehículo y los síntomas reportados por el cliente, devuelve ÚNICAMENTE un objeto JSON (sin texto adicional) con esta estructura exacta:
{
  "diagnosis": "<diagnóstico preliminar más probable, en español>",
  "suggested_checks": ["<verificación concreta 1>", "<verificación concreta 2>"],
  "confidence_score": <número decimal entre 0.0 y 1.0>,
  "reasoning": "<explicación concisa en español, máximo 300 caracteres>"
}

Reglas:
- diagnosis: la causa más probable, no una lista de todas las posibles.
- suggested_checks: entre 2 y 5 verificaciones ordenadas de la más barata a la más costosa.
- Es una sugerencia para el mecánico, no un dictamen; refléjalo en el confidence_score.`
)

// GeminiService adaptador que implementa LLMService llamando a la API REST de Google Gemini.
// Usa únicamente la librería estándar de Go (net/http) para no añadir dependencias externas.
type GeminiService struct {
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewGeminiService construye el adaptador. model suele ser "gemini-1.5-flash".
// Si apiKey está vacío, las llamadas devuelven error descriptivo en lugar de fallar en producción.
func NewGeminiService(apiKey, model string) *GeminiService {
	return &GeminiService{
		apiKey: apiKey,
		model:  model,
		httpClient: &http.Client{
			Timeout: 40 * time.Second, // timeout de red; el caller también pone WithTimeout
		},
	}
}

// ── Estructuras internas para la API de Gemini ────────────────────────────────

type geminiRequest struct {
	SystemInstruction *geminiContent  `json:"system_instruction,omitempty"`
	Contents          []geminiContent `json:"contents"`
	GenerationConfig  genConfig       `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
	Role  string       `json:"role,omitempty"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inline_data,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"` // base64 sin prefijo data:
}

type genConfig struct {
	ResponseMIMEType string  `json:"responseMimeType"` // "application/json" → JSON puro garantizado
	Temperature      float32 `json:"temperature"`
	MaxOutputTokens  int     `json:"maxOutputTokens"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// llmInvoicePayload es el JSON que esperamos del modelo al leer una factura.
type llmInvoicePayload struct {
	SupplierName string `json:"supplier_name"`
	InvoiceRef   string `json:"invoice_ref"`
	Date         string `json:"date"`
	Lines        []struct {
		Description string  `json:"description"`
		Quantity    float64 `json:"quantity"`
		UnitCost    float64 `json:"unit_cost"`
	} `json:"lines"`
	ConfidenceScore float64 `json:"confidence_score"`
}

// llmDiagnosisPayload es el JSON que esperamos del modelo al diagnosticar.
type llmDiagnosisPayload struct {
	Diagnosis       string   `json:"diagnosis"`
	SuggestedChecks []string `json:"suggested_checks"`
	ConfidenceScore float64  `json:"confidence_score"`
	Reasoning       string   `json:"reasoning"`
}

// ── Implementación del puerto ─────────────────────────────────────────────────

// ExtractInvoice llama a Gemini con la foto de la factura (inline_data) y
// devuelve los datos sugeridos para pre-llenar el formulario de compra.
func (s *GeminiService) ExtractInvoice(
	ctx context.Context,
	imageBase64 string,
	mimeType string,
) (*dto.AIInvoiceExtractionDTO, error) {
	payload := geminiRequest{
		SystemInstruction: &geminiContent{
			Parts: []geminiPart{{Text: invoiceSystemPrompt}},
		},
		Contents: []geminiContent{
			{
				Role: "user",
				Parts: []geminiPart{
					{InlineData: &geminiInlineData{MimeType: mimeType, Data: imageBase64}},
					{Text: "Extrae los datos de esta factura de proveedor."},
				},
			},
		},
		GenerationConfig: genConfig{
			ResponseMIMEType: "application/json",
			Temperature:      0.1, // lectura de documento: lo más determinista posible
			MaxOutputTokens:  2048,
		},
	}

	rawJSON, err := s.generate(ctx, payload)
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

// SuggestDiagnosis llama a Gemini con los datos del vehículo y los síntomas
// y devuelve un diagnóstico preliminar sugerido.
func (s *GeminiService) SuggestDiagnosis(
	ctx context.Context,
	req dto.AISuggestDiagnosisRequest,
) (*dto.AIDiagnosisDTO, error) {
	userText := fmt.Sprintf(
		"Vehículo: %s %s %d\nKilometraje: %d km\nSíntomas reportados: %s",
		req.VehicleBrand, req.VehicleModel, req.VehicleYear, req.Mileage, req.Symptoms,
	)

	payload := geminiRequest{
		SystemInstruction: &geminiContent{
			Parts: []geminiPart{{Text: diagnosisSystemPrompt}},
		},
		Contents: []geminiContent{
			{
				Role:  "user",
				Parts: []geminiPart{{Text: userText}},
			},
		},
		GenerationConfig: genConfig{
			ResponseMIMEType: "application/json",
			Temperature:      0.3,
			MaxOutputTokens:  512,
		},
	}

	rawJSON, err := s.generate(ctx, payload)
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

// generate envía el request a Gemini y devuelve el texto del primer candidato.
func (s *GeminiService) generate(ctx context.Context, payload geminiRequest) (string, error) {
	if s.apiKey == "" {
		return "", fmt.Errorf("AI: GEMINI_API_KEY no configurado")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("AI: serializar request: %w", err)
	}

	url := fmt.Sprintf(geminiBaseURL, s.model, s.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("AI: crear HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

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

	if resp.StatusCode != http.StatusOK {
		// Intentar extraer el mensaje de error de Gemini
		var errResp geminiResponse
		if jsonErr := json.Unmarshal(rawBody, &errResp); jsonErr == nil && errResp.Error != nil {
			return "", fmt.Errorf("AI: Gemini error %d: %s", errResp.Error.Code, errResp.Error.Message)
		}
		return "", fmt.Errorf("AI: Gemini HTTP %d", resp.StatusCode)
	}

	var gemResp geminiResponse
	if err := json.Unmarshal(rawBody, &gemResp); err != nil {
		return "", fmt.Errorf("AI: deserializar respuesta Gemini: %w", err)
	}

	if len(gemResp.Candidates) == 0 || len(gemResp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("AI: Gemini devolvió respuesta vacía")
	}

	return strings.TrimSpace(gemResp.Candidates[0].Content.Parts[0].Text), nil
}

// clampConfidence fuerza el score al rango [0, 1].
func clampConfidence(raw float64) float64 {
	if raw < 0 {
		return 0
	}
	if raw > 1 {
		return 1
	}
	return raw
}
