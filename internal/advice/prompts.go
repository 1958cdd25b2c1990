package advice

import (
	"encoding/json"
	"fmt"

	"github.com/andresuchdata/stockroom/internal/domain"
	"github.com/andresuchdata/stockroom/internal/merch"
)

const systemPromptTemplate = `You are Keith J Lockwood, author of 'The Reluctant Retailer'.
You are a supportive mentor to independent shopkeepers in the UK.

**CRITICAL INSTRUCTIONS:**
1. **Language:** ALWAYS use British English spelling (e.g., colour, behaviour, organise, centre, programme).
2. **Formatting:**
   - Use **Markdown Tables** for any data comparisons or lists of figures.
   - Use **double asterisks** to bold key metrics and headings.
   - Use standard bullet points for lists.
3. **Tone:** Warm, encouraging, plain English, and jargon-free.

**Your Core Beliefs (from the book):**
1. "Profit is sanity, turnover is vanity" -> Focus on money in the pocket, not just sales.
2. "Clear the decks" -> Don't be afraid to discount old stock to get cash back.
3. "Magic Moments" -> Retail is about connection, not just transactions.
4. "Stock Life" -> Understand how long your stock will last (Weeks to Sell).

Context Data provided: %s

Provide a friendly, actionable response.`

// SystemPrompt renders the mentor persona with contextData serialised as
// JSON. A nil context is sent as an empty object.
func SystemPrompt(contextData interface{}) (string, error) {
	payload, err := contextJSON(contextData)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(systemPromptTemplate, payload), nil
}

func contextJSON(contextData interface{}) (string, error) {
	if contextData == nil {
		return "{}", nil
	}
	b, err := json.Marshal(contextData)
	if err != nil {
		return "", fmt.Errorf("failed to encode advice context: %w", err)
	}
	return string(b), nil
}

// HealthCheckPrompt asks for the three point "Shop Health Check".
func HealthCheckPrompt(overview domain.ShopOverview) (string, error) {
	breakdown, err := json.Marshal(overview.Categories)
	if err != nil {
		return "", fmt.Errorf("failed to encode category breakdown: %w", err)
	}

	return fmt.Sprintf(`Act as a friendly retail mentor. Look at my shop's data below.
Give me a "Shop Health Check".
1. Start with something positive.
2. Point out one area where I might be tying up too much cash (Overstock).
3. Point out one opportunity to make more money (Margin or Best Sellers).

Data:
- Cash tied up in Stock: £%.2f
- Recent Sales: £%.2f
- Weeks of Stock: %s (Ideal is 10-12)
- Open to Buy: £%.2f

Category Breakdown: %s`,
		overview.Stats.TotalStockValue,
		overview.Stats.TotalSalesValue,
		overview.Stats.UnitCover.Display(),
		overview.Budget.OpenToBuy,
		breakdown,
	), nil
}

// ActionPrompt picks the prompt for an action item: margin reviews get a
// supplier email, everything else gets coaching.
func ActionPrompt(item domain.ActionItem) (Topic, string) {
	if item.Kind == domain.ActionMarginReview {
		return TopicSupplierEmail, SupplierEmailPrompt(item.Product)
	}
	return TopicCoaching, CoachingPrompt(item)
}

// CoachingPrompt asks for three simple steps to resolve an action item.
func CoachingPrompt(item domain.ActionItem) string {
	p := item.Product
	return fmt.Sprintf(`I have a situation in my shop: "%s".
Context: %s
Product Info: Cost £%v, Price £%v, Stock %d.
Act as a helpful retail coach. Give me 3 simple steps to handle this. Keep it positive.`,
		item.Title, item.Description, p.Cost, p.RRP, p.Stock)
}

// SupplierEmailPrompt drafts a cost negotiation aimed at a 50% margin
// without moving the shelf price.
func SupplierEmailPrompt(p domain.Product) string {
	return fmt.Sprintf(`Write a polite but firm email to my supplier for %s.
Context: I buy %s from them at £%v. I sell it at £%v.
The margin is too low (%.0f%%).
Goal: Negotiate a better cost price so I can achieve a 50%% margin without raising the RRP.`,
		p.Supplier, p.Name, p.Cost, p.RRP, merch.MarginPercent(p.Cost, p.RRP))
}

// MarketingPrompt asks for an Instagram caption and a shelf talker.
func MarketingPrompt(p domain.Product) string {
	return fmt.Sprintf(`Write creative marketing copy for this product:
Product: %s
Category: %s

Please provide two outputs:
1. **Instagram Caption:** Engaging, friendly, with 3-5 relevant hashtags. British English.
2. **Shelf Talker:** A 1-sentence catchy description to place next to the price tag in the shop.`,
		p.Name, p.CategoryName())
}

// Title is the heading shown above advice for a topic.
func (t Topic) Title() string {
	switch t {
	case TopicSummary:
		return "Shop Health Check"
	case TopicSupplierEmail:
		return "Draft Supplier Email"
	case TopicMarketing:
		return "Marketing Magic"
	case TopicCoaching:
		return "Coaching"
	default:
		return "Chat"
	}
}
