package catalog

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/minhvu/coolsearch/internal/domain"
)

// markerPhrase starts every parseable catalog line. Lines without it are
// headers, blanks, or noise and are filtered out silently.
const markerPhrase = "Sản phẩm"

// linePattern matches "Sản phẩm <title> có giá <price>đ" with an optional
// "(Giảm <pct>% từ <price>đ)" discount clause. Prices use "." as thousands
// separator and carry no decimal component.
var linePattern = regexp.MustCompile(`^Sản phẩm (.+?) có giá ([\d.,]+)đ(?:\s*\(Giảm\s*(\d+)%\s*từ\s*([\d.,]+)đ\))?`)

// categoryRule maps title keywords to a category. Rules are evaluated
// top-to-bottom and the first match wins, so the order of this list is part of
// the classification contract: "Quần Lót" lands in "Quần" because the "Quần"
// rule is checked before "Đồ lót".
type categoryRule struct {
	Category string
	Keywords []string
}

// DefaultCategory is assigned when no keyword rule matches the title.
const DefaultCategory = "Khác"

var categoryRules = []categoryRule{
	{"Áo thun", []string{"áo thun", "tshirt", "t-shirt"}},
	{"Quần", []string{"quần", "shorts", "pants"}},
	{"Áo polo", []string{"áo polo", "polo"}},
	{"Áo sơ mi", []string{"áo sơ mi", "shirt"}},
	{"Áo khoác", []string{"áo khoác", "jacket", "hoodie", "nỉ"}},
	{"Đồ lót", []string{"quần lót", "trunk", "briefs"}},
	{"Váy", []string{"váy", "dress"}},
	{"Áo bra", []string{"bra", "áo bra"}},
	{"Legging", []string{"legging", "tights"}},
	{"Tất", []string{"tất", "socks"}},
}

// ClassifyTitle returns the category for a product title using the ordered
// keyword rules. Matching is case-insensitive and purely a function of the title.
func ClassifyTitle(title string) string {
	lower := strings.ToLower(title)
	for _, rule := range categoryRules {
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, kw) {
				return rule.Category
			}
		}
	}
	return DefaultCategory
}

// Categories returns the closed category set in rule order, default last.
func Categories() []string {
	out := make([]string, 0, len(categoryRules)+1)
	for _, rule := range categoryRules {
		out = append(out, rule.Category)
	}
	return append(out, DefaultCategory)
}

// Parser converts catalog text lines into Product records.
// IDs are assigned sequentially starting at 1 and advance only for lines that
// parse successfully, so skipped lines leave no gaps.
type Parser struct {
	nextID int
}

// NewParser creates a parser for a single parse run.
func NewParser() *Parser {
	return &Parser{nextID: 1}
}

// ParseLine parses one catalog line. The second return value is false when the
// line does not match the grammar; that is a filter outcome, not an error, and
// the id counter does not advance.
func (p *Parser) ParseLine(line string) (*domain.Product, bool) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, markerPhrase) {
		return nil, false
	}

	m := linePattern.FindStringSubmatch(line)
	if m == nil {
		return nil, false
	}

	title := strings.TrimSpace(m[1])
	price, err := parsePrice(m[2])
	if err != nil {
		return nil, false
	}

	originalPrice := price
	discountPercent := 0
	if m[3] != "" {
		discountPercent, _ = strconv.Atoi(m[3])
		originalPrice, err = parsePrice(m[4])
		if err != nil {
			return nil, false
		}
	}
	// A zero-percent clause or an original price at/below the current price
	// means no effective discount.
	if discountPercent == 0 || originalPrice <= price {
		originalPrice = price
		discountPercent = 0
	}

	category := ClassifyTitle(title)
	product := &domain.Product{
		ID:              fmt.Sprintf("prod_%04d", p.nextID),
		Title:           title,
		Category:        category,
		Price:           price,
		OriginalPrice:   originalPrice,
		DiscountPercent: discountPercent,
		Description:     fmt.Sprintf("Sản phẩm %s thuộc danh mục %s với giá %sđ", title, category, FormatPrice(price)),
	}
	p.nextID++
	return product, true
}

// ParseLines parses a sequence of catalog lines, silently skipping those that
// do not match the grammar.
func (p *Parser) ParseLines(lines []string) []domain.Product {
	products := make([]domain.Product, 0, len(lines))
	for _, line := range lines {
		if product, ok := p.ParseLine(line); ok {
			products = append(products, *product)
		}
	}
	return products
}

// parsePrice strips thousands separators and converts to an integer amount.
func parsePrice(s string) (int64, error) {
	cleaned := strings.NewReplacer(".", "", ",", "").Replace(s)
	if cleaned == "" {
		return 0, fmt.Errorf("empty price")
	}
	return strconv.ParseInt(cleaned, 10, 64)
}

// FormatPrice renders an amount with comma thousands separators, matching the
// description template of the catalog artifact (e.g. 329000 -> "329,000").
func FormatPrice(amount int64) string {
	s := strconv.FormatInt(amount, 10)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
