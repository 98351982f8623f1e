package usecases

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/samirrijal/agroshare/internal/core/domain"
	"github.com/samirrijal/agroshare/internal/pkg/metrics"
)

// Review feed policy.
const (
	MinReviewCount = 7
	MaxReviewCount = 12
	MinReviewStars = 3
	MaxReviewStars = 5
)

var (
	reviewerNames = []string{
		"Ramesh Patil", "Suresh Jadhav", "Anita Deshmukh", "Vikram Shinde",
		"Priya Kulkarni", "Mahesh Pawar", "Sunita More", "Ganesh Bhosale",
		"Kavita Gaikwad", "Arjun Thakur",
	}
	reviewerAvatars = []string{
		"https://i.pravatar.cc/150?img=3",
		"https://i.pravatar.cc/150?img=5",
		"https://i.pravatar.cc/150?img=8",
		"https://i.pravatar.cc/150?img=11",
		"https://i.pravatar.cc/150?img=14",
		"https://i.pravatar.cc/150?img=20",
		"https://i.pravatar.cc/150?img=32",
		"https://i.pravatar.cc/150?img=47",
	}
	reviewComments = []string{
		"Machine was in great condition and the owner explained everything.",
		"Arrived on time, worked the whole day without any trouble.",
		"Good value for the hourly rate. Would rent again.",
		"Fuel tank was full and the tyres were fine. Smooth harvest.",
		"Owner was flexible with pickup time. Recommended.",
		"Slightly older model but it did the job well.",
		"Very helpful owner, gave tips for the field work.",
		"Clean, well maintained and easy to operate.",
		"Booked at short notice and it was ready in an hour.",
		"Fair price and honest owner.",
	}
	reviewDates = []string{
		"2 days ago", "5 days ago", "1 week ago", "2 weeks ago",
		"3 weeks ago", "1 month ago", "2 months ago", "3 months ago",
	}
)

// ReviewSynthesizer builds a plausible review feed around a listing's
// aggregate rating. The feed is filler for the detail page and is never
// stored.
type ReviewSynthesizer struct {
	skewUp   float64
	skewDown float64

	mu  sync.Mutex
	rng *rand.Rand
}

// NewReviewSynthesizer creates a synthesizer. skewUp and skewDown are the
// probabilities of moving a rating one star above or below the rounded
// average. rng may be nil, in which case a time-seeded source is used.
func NewReviewSynthesizer(skewUp, skewDown float64, rng *rand.Rand) *ReviewSynthesizer {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &ReviewSynthesizer{skewUp: skewUp, skewDown: skewDown, rng: rng}
}

// Synthesize draws a feed from the synthesizer's own random source.
func (s *ReviewSynthesizer) Synthesize(averageRating float64, count int) []domain.ReviewRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.SynthesizeWith(s.rng, averageRating, count)
}

// SynthesizeWith draws a feed from rng. The same rng state always yields
// the same feed.
func (s *ReviewSynthesizer) SynthesizeWith(rng *rand.Rand, averageRating float64, count int) []domain.ReviewRecord {
	count = ClampReviewCount(count)
	base := baseStars(averageRating)

	reviews := make([]domain.ReviewRecord, count)
	for i := range reviews {
		reviews[i] = domain.ReviewRecord{
			ID:                i,
			ReviewerName:      reviewerNames[rng.Intn(len(reviewerNames))],
			ReviewerAvatarRef: reviewerAvatars[rng.Intn(len(reviewerAvatars))],
			Rating:            s.skew(rng, base),
			RelativeDate:      reviewDates[rng.Intn(len(reviewDates))],
			Comment:           reviewComments[rng.Intn(len(reviewComments))],
		}
	}
	metrics.ReviewsSynthesized.Add(float64(count))
	return reviews
}

// RandomCount picks a feed length from the synthesizer's own source.
func (s *ReviewSynthesizer) RandomCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return RandomReviewCount(s.rng)
}

// RandomReviewCount picks a feed length inside the policy range.
func RandomReviewCount(rng *rand.Rand) int {
	return MinReviewCount + rng.Intn(MaxReviewCount-MinReviewCount+1)
}

// ClampReviewCount forces count into the policy range.
func ClampReviewCount(count int) int {
	if count < MinReviewCount {
		return MinReviewCount
	}
	if count > MaxReviewCount {
		return MaxReviewCount
	}
	return count
}

func (s *ReviewSynthesizer) skew(rng *rand.Rand, base int) int {
	stars := base
	switch r := rng.Float64(); {
	case r < s.skewDown:
		stars--
	case r >= 1-s.skewUp:
		stars++
	}
	return clampStars(stars)
}

// baseStars rounds the average. Ratings are floored at MinReviewStars even
// when the listing average is lower.
func baseStars(avg float64) int {
	if math.IsNaN(avg) || math.IsInf(avg, 0) {
		avg = 0
	}
	avg = math.Max(0, math.Min(float64(MaxReviewStars), avg))
	return clampStars(int(math.Round(avg)))
}

func clampStars(n int) int {
	if n < MinReviewStars {
		return MinReviewStars
	}
	if n > MaxReviewStars {
		return MaxReviewStars
	}
	return n
}
