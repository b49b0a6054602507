package main

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/stemsi/interview-assistant/internal/bank"
	"github.com/stemsi/interview-assistant/internal/config"
	"github.com/stemsi/interview-assistant/internal/database"
	"github.com/stemsi/interview-assistant/internal/logger"
	"github.com/stemsi/interview-assistant/internal/model"
	"github.com/stemsi/interview-assistant/internal/scoring"
	"github.com/stemsi/interview-assistant/internal/service"
)

var names = []string{
	"Budi Santoso", "Siti Aminah", "Andi Pratama", "Rina Wati", "Joko Susilo",
	"Ayu Lestari", "Dodi Kusuma", "Eka Putri", "Fahri Hamzah", "Gita Savitri",
	"Hendra Gunawan", "Ika Sari", "Jamal Mirdad", "Kiki Fatmala", "Lukman Hakim",
	"Maya Septiana", "Nanda Pratama", "Oki Setiana", "Putri Dian", "Qori Maharani",
}

func main() {
	count := flag.Int("n", 10, "number of candidates to add")
	interviewed := flag.Int("interviewed", 6, "how many of them complete an interview")
	flag.Parse()

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	stores, err := database.OpenStores(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open snapshot store")
	}
	defer stores.Close()
	if stores.Driver != cfg.StoreDriver {
		log.Fatal().Str("driver", cfg.StoreDriver).Msg("Snapshot store unreachable, refusing to seed the file store instead")
	}

	questions := bank.Default()
	if cfg.QuestionBankPath != "" {
		if questions, err = bank.Load(cfg.QuestionBankPath); err != nil {
			log.Fatal().Err(err).Msg("Failed to load question bank")
		}
	}

	svc := service.NewInterviewService(questions, scoring.NewRandomScorer(nil), stores.Snapshot, log)
	svc.Load(ctx)

	fmt.Printf("=== Seeding %d Candidates (%s store) ===\n", *count, stores.Driver)

	successCount := 0
	for i := 0; i < *count; i++ {
		name := names[i%len(names)]
		if i >= len(names) {
			name = fmt.Sprintf("%s %d", name, i/len(names)+1)
		}
		email := strings.ToLower(strings.ReplaceAll(names[i%len(names)], " ", ".")) + fmt.Sprintf("%d@example.com", i+1)

		c, err := svc.AddCandidate(ctx, model.CreateCandidateRequest{
			Name:  name,
			Email: email,
			Phone: fmt.Sprintf("+62 812 0000 %04d", i+1),
		})
		if err != nil {
			fmt.Printf("Error creating candidate %s: %v\n", name, err)
			continue
		}

		if i < *interviewed {
			if err := interview(ctx, svc, c.ID); err != nil {
				fmt.Printf("Error interviewing %s: %v\n", name, err)
				continue
			}
		}

		successCount++
		if (i+1)%10 == 0 {
			fmt.Printf("Created %d candidates...\n", i+1)
		}
	}

	if err := svc.Flush(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to save snapshot")
	}
	fmt.Printf("\nSeed completed! Successfully added %d/%d candidates.\n", successCount, *count)
}

// interview runs a full session with canned answers.
func interview(ctx context.Context, svc *service.InterviewService, candidateID uuid.UUID) error {
	sess, err := svc.StartInterview(ctx, candidateID)
	if err != nil {
		return err
	}
	for i, q := range sess.Questions {
		answer := fmt.Sprintf("Sample answer %d for a %s question.", i+1, q.Difficulty)
		if _, err := svc.SubmitAnswer(ctx, candidateID, q.ID, answer); err != nil {
			return err
		}
		if _, err := svc.Advance(ctx, candidateID); err != nil {
			return err
		}
	}
	return nil
}
