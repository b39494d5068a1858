package telegram

import (
	"fmt"
	"strings"

	"golang-shopify-warroom/internal/dto"
)

// FormatMarketAnalysis renders a completed market assessment as a Markdown
// message for Telegram.
func FormatMarketAnalysis(event dto.MarketAnalysisEvent) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("🏪 *- - - - - %s - - - - -*\n", event.CompetitorName))

	var biasIcon string
	switch event.Bias {
	case "AGGRESSIVE":
		biasIcon = "🔴"
	case "DEFENSIVE":
		biasIcon = "🛡️"
	default:
		biasIcon = "😐"
	}
	b.WriteString(fmt.Sprintf("%s *Bias:* %s\n", biasIcon, event.Bias))
	b.WriteString(fmt.Sprintf("🎯 *Sentiment:* %d/100\n", event.SentimentScore))

	if event.AlphaOpportunity != "" {
		b.WriteString(fmt.Sprintf("💡 *Alpha:* %s\n", event.AlphaOpportunity))
	}
	if event.Degraded {
		b.WriteString("⚠️ *Note:* model reply could not be parsed, placeholder analysis stored\n")
	}
	b.WriteString(fmt.Sprintf("🕐 %s UTC\n", event.CreatedAt.Format("2006-01-02 15:04")))

	return b.String()
}
