package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"

	"github.com/gizikita/backend/internal/models"
)

// Detector is the first pipeline stage: it lists the food items on a photo.
type Detector interface {
	DetectMenuItems(ctx context.Context, img *Image) ([]models.MenuItemDetection, error)
}

const detectionPrompt = `Anda adalah ahli deteksi makanan. Analisis foto hidangan ini dan identifikasi setiap makanan yang terlihat beserta perkiraan beratnya.

Tugas: sebutkan semua makanan yang terlihat dan perkirakan beratnya dalam gram.

Format keluaran: kembalikan HANYA array JSON yang valid dengan struktur berikut:
[
  {
    "nama_menu": "nama makanan dalam bahasa Indonesia",
    "estimasi_gram": angka,
    "deskripsi": "deskripsi makanan sedetail mungkin, maksimal 100 kata",
    "proses_pengolahan": "cara makanan tampaknya diolah, sedetail mungkin, maksimal 100 kata"
  }
]

Penting:
- Perkirakan porsi seakurat mungkin
- Gunakan nama makanan dalam bahasa Indonesia
- Sertakan semua makanan yang terlihat
- Jangan tambahkan teks lain selain array JSON
- Seluruh isi keluaran wajib dalam bahasa Indonesia`

// GeminiDetector detects menu items with a multimodal Gemini prompt.
type GeminiDetector struct {
	gen ContentGenerator
}

func NewGeminiDetector(gen ContentGenerator) *GeminiDetector {
	return &GeminiDetector{gen: gen}
}

func (d *GeminiDetector) DetectMenuItems(ctx context.Context, img *Image) ([]models.MenuItemDetection, error) {
	text, err := d.gen.GenerateContent(ctx, GenerateRequest{
		Parts: []Part{
			{Text: detectionPrompt},
			{InlineData: &InlineData{
				MimeType: img.ContentType,
				Data:     base64.StdEncoding.EncodeToString(img.Data),
			}},
		},
		JSON:        true,
		Temperature: 0.2,
	})
	if err != nil {
		return nil, fmt.Errorf("detect menu items: %w", err)
	}
	return DecodeDetections(text)
}

// LabelDetector is the subset of the Rekognition client used here.
type LabelDetector interface {
	DetectLabels(ctx context.Context, in *rekognition.DetectLabelsInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectLabelsOutput, error)
}

// genericLabels are too broad to be a menu item.
var genericLabels = map[string]bool{
	"food": true, "meal": true, "dish": true, "lunch": true, "dinner": true,
	"breakfast": true, "plate": true, "tableware": true, "cutlery": true,
	"bowl": true, "platter": true, "produce": true, "cuisine": true,
}

// RekognitionDetector turns AWS Rekognition labels into menu items. Portions
// are unknown, so grams stay zero and the nutrition stage estimates them.
type RekognitionDetector struct {
	client        LabelDetector
	maxLabels     int32
	minConfidence float32
}

func NewRekognitionDetector(client LabelDetector) *RekognitionDetector {
	return &RekognitionDetector{client: client, maxLabels: 15, minConfidence: 75}
}

func (d *RekognitionDetector) DetectMenuItems(ctx context.Context, img *Image) ([]models.MenuItemDetection, error) {
	out, err := d.client.DetectLabels(ctx, &rekognition.DetectLabelsInput{
		Image:         &types.Image{Bytes: img.Data},
		MaxLabels:     aws.Int32(d.maxLabels),
		MinConfidence: aws.Float32(d.minConfidence),
	})
	if err != nil {
		var throttled *types.ThrottlingException
		var exceeded *types.ProvisionedThroughputExceededException
		if errors.As(err, &throttled) || errors.As(err, &exceeded) {
			return nil, fmt.Errorf("%w: %v", ErrProviderOverload, err)
		}
		return nil, fmt.Errorf("detect labels: %w", err)
	}

	var items []models.MenuItemDetection
	seen := map[string]bool{}
	for _, label := range out.Labels {
		name := strings.TrimSpace(aws.ToString(label.Name))
		key := strings.ToLower(name)
		if name == "" || genericLabels[key] || seen[key] {
			continue
		}
		seen[key] = true
		items = append(items, models.MenuItemDetection{
			Name:        name,
			Description: fmt.Sprintf("Terdeteksi dengan keyakinan %.0f%%", aws.ToFloat32(label.Confidence)),
		})
	}
	if len(items) == 0 {
		return nil, ErrNoItemsDetected
	}
	return items, nil
}
