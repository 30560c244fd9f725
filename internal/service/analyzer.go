package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gizikita/backend/internal/models"
)

// NutritionAnalyzer is the second pipeline stage.
type NutritionAnalyzer interface {
	AnalyzeNutrition(ctx context.Context, items []models.MenuItemDetection) (*models.NutritionAnalysis, error)
}

const nutritionPromptTemplate = `Anda adalah asisten ahli gizi profesional. Analisis kandungan gizi daftar makanan berikut dan nilai keseimbangan hidangannya.

Masukan: %s

Tugas:
1. Hitung informasi gizi rinci untuk setiap makanan.
2. Buat ringkasan gizi berisi kalori, protein, lemak, karbohidrat, natrium dan serat.
3. Nilai apakah hidangan "Layak" (gizi seimbang) atau "Kurang sesuai" (tidak seimbang, berlebih atau kurang).
4. Beri penjelasan singkat (maksimal 50 kata, bahasa Indonesia) untuk penilaian tersebut.
5. Jika "Kurang sesuai", beri rekomendasi praktis (maksimal 50 kata, bahasa Indonesia).

Format keluaran: kembalikan HANYA objek JSON yang valid dengan struktur berikut:
{
  "nutrition_summary": {
    "calories_kcal": angka,
    "protein_g": angka,
    "fat_g": angka,
    "carbs_g": angka,
    "sodium_mg": angka,
    "fiber_g": angka
  },
  "items": [
    {
      "name": "nama makanan dalam bahasa Indonesia",
      "grams": angka,
      "calories_kcal": angka,
      "protein_g": angka,
      "fat_g": angka,
      "carbs_g": angka,
      "sodium_mg": angka,
      "fiber_g": angka
    }
  ],
  "summary_evaluation": {
    "status": "Layak" atau "Kurang sesuai",
    "reason": "penjelasan singkat",
    "recommendation": "solusi praktis"
  }
}

Kriteria:
- Layak: protein 15-20%% dari kalori, rasio lemak sehat, serat cukup, natrium < 2300 mg, kalori wajar.
- Kurang sesuai: kalori berlebih, natrium tinggi, protein rendah, makro tidak seimbang atau serat kurang.

Penting:
- Gunakan data gizi dari basis data makanan standar.
- Urutan "items" harus sama dengan urutan masukan, satu item per masukan.
- Jika estimasi_gram bernilai 0, perkirakan porsi wajar untuk satu orang.
- Ringkasan adalah jumlah seluruh item.
- Semua kunci JSON dalam bahasa Inggris, semua nilai teks dalam bahasa Indonesia.
- Jangan tambahkan teks lain selain objek JSON.`

// GeminiNutritionAnalyzer computes nutrition facts with a text-only Gemini prompt.
type GeminiNutritionAnalyzer struct {
	gen ContentGenerator
}

func NewGeminiNutritionAnalyzer(gen ContentGenerator) *GeminiNutritionAnalyzer {
	return &GeminiNutritionAnalyzer{gen: gen}
}

func (a *GeminiNutritionAnalyzer) AnalyzeNutrition(ctx context.Context, items []models.MenuItemDetection) (*models.NutritionAnalysis, error) {
	input, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("marshal menu items: %w", err)
	}

	text, err := a.gen.GenerateContent(ctx, GenerateRequest{
		Parts:       []Part{{Text: fmt.Sprintf(nutritionPromptTemplate, input)}},
		JSON:        true,
		Temperature: 0.2,
	})
	if err != nil {
		return nil, fmt.Errorf("analyze nutrition: %w", err)
	}
	return DecodeAnalysis(text)
}
