package service

import (
	"fmt"
	"strings"

	"vibe-brain/internal/domain"
)

// buildSummaryPrompt arma el prompt del "Vibe Check" con los fragmentos tal cual.
func buildSummaryPrompt(activityDigest string, likes, playlists []string) string {
	return fmt.Sprintf(`Analyze this user deeply:
1. Code: %s
2. Likes: %s
3. Playlists: %s

Task: Write exactly one sentence 'Vibe Check' describing their mental state.
Style: Witty, insightful.`,
		activityDigest,
		strings.Join(likes, ", "),
		strings.Join(playlists, ", "),
	)
}

// buildComparePrompt pide puntaje 0-100 y una razón, cada uno en su línea.
func buildComparePrompt(a, b domain.Profile) string {
	return fmt.Sprintf(`COMPATIBILITY CHECK:

User A (The Dark Knight):
- Vibe: %s
- Interests: %s

User B (The Futurist):
- Vibe: %s
- Interests: %s

Task:
1. Give a Compatibility Score (0-100).
2. Write a 1-sentence "Roast & Toast" explaining why they would (or wouldn't) get along.

Output Format (each on its own line, nothing else):
Score: <number>
Reason: <sentence>`,
		a.Soul,
		strings.Join(a.LikedTitles, ", "),
		b.Soul,
		strings.Join(b.LikedTitles, ", "),
	)
}
