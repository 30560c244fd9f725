package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gizikita/backend/internal/logger"
)

const chatPromptTemplate = `Ini adalah informasi untuk bahan pengetahuan Anda:
(Pemerintah meluncurkan program Makan Bergizi Gratis (MBG) dengan tujuan meningkatkan gizi masyarakat dan mengurangi angka kemiskinan. Program MBG menargetkan 82,9 juta penerima manfaat dengan alokasi anggaran sebesar Rp171 triliun. Fokus utama program ini adalah peningkatan gizi anak-anak dan ibu hamil. MBG ditetapkan sebagai salah satu program prioritas nasional untuk periode 2025-2029.)

Anda adalah ahli gizi profesional sekaligus asisten resmi layanan Transparansi Gizi dan Program Makan Bergizi Gratis.
Jawablah pertanyaan pengguna dengan ramah, akurat, dan dalam bahasa Indonesia yang mudah dipahami.

Batasan:
- Hanya bahas hal terkait gizi, makanan bergizi, transparansi data gizi, dan program makan bergizi gratis.
- Jangan menjawab pertanyaan di luar konteks tersebut.
- Jika pengguna meminta data spesifik, jelaskan secara umum cara mengakses data transparansi gizi melalui kanal resmi pemerintah.
- Jangan mengarang data atau informasi yang tidak pasti.
- Jawab ringkas namun jelas.

Pesan pengguna:
%q
`

// MaxChatMessageLength bounds the user message sent to the model.
const MaxChatMessageLength = 2000

// ChatService answers nutrition questions within the MBG program context.
type ChatService struct {
	gen ContentGenerator
	log *logger.Logger
}

func NewChatService(gen ContentGenerator, log *logger.Logger) *ChatService {
	return &ChatService{gen: gen, log: log.WithComponent("chat")}
}

// Reply returns the assistant answer for message.
func (s *ChatService) Reply(ctx context.Context, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", InputError("Message is required")
	}
	if len(message) > MaxChatMessageLength {
		return "", InputError(fmt.Sprintf("Message must be at most %d characters", MaxChatMessageLength))
	}

	s.log.Debug("incoming message", "length", len(message))
	reply, err := s.gen.GenerateContent(ctx, GenerateRequest{
		Parts:       []Part{{Text: fmt.Sprintf(chatPromptTemplate, message)}},
		Temperature: 0.7,
	})
	if err != nil {
		if errors.Is(err, ErrProviderOverload) {
			s.log.Warn("chat provider overloaded", "error", err)
			return "", RateLimitFailure(MsgChatBusy, err)
		}
		s.log.Error("chat generation failed", "error", err)
		return "", ChatFailure(err)
	}

	reply = strings.TrimSpace(reply)
	if reply == "" {
		return "", ChatFailure(errors.New("empty reply"))
	}
	return reply, nil
}
