package catalog

import (
	"testing"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name            string
		line            string
		wantOK          bool
		wantTitle       string
		wantCategory    string
		wantPrice       int64
		wantOriginal    int64
		wantDiscountPct int
	}{
		{
			name:            "discounted product",
			line:            "Sản phẩm Áo Thun Nam Viet Devils - Bật Như Man có giá 329.000đ (Giảm 15% từ 389.000đ)",
			wantOK:          true,
			wantTitle:       "Áo Thun Nam Viet Devils - Bật Như Man",
			wantCategory:    "Áo thun",
			wantPrice:       329000,
			wantOriginal:    389000,
			wantDiscountPct: 15,
		},
		{
			name:            "product without discount clause",
			line:            "Sản phẩm Quần Shorts Nam thể thao 7inch có giá 199.000đ",
			wantOK:          true,
			wantTitle:       "Quần Shorts Nam thể thao 7inch",
			wantCategory:    "Quần",
			wantPrice:       199000,
			wantOriginal:    199000,
			wantDiscountPct: 0,
		},
		{
			name:            "zero percent discount collapses to no discount",
			line:            "Sản phẩm Áo Polo Nam Basic có giá 249.000đ (Giảm 0% từ 299.000đ)",
			wantOK:          true,
			wantTitle:       "Áo Polo Nam Basic",
			wantCategory:    "Áo polo",
			wantPrice:       249000,
			wantOriginal:    249000,
			wantDiscountPct: 0,
		},
		{
			name:            "original price not above price collapses to no discount",
			line:            "Sản phẩm Áo Sơ Mi Dài Tay có giá 399.000đ (Giảm 10% từ 399.000đ)",
			wantOK:          true,
			wantTitle:       "Áo Sơ Mi Dài Tay",
			wantCategory:    "Áo sơ mi",
			wantPrice:       399000,
			wantOriginal:    399000,
			wantDiscountPct: 0,
		},
		{
			name:   "header line is skipped",
			line:   "=== DANH SÁCH SẢN PHẨM ===",
			wantOK: false,
		},
		{
			name:   "blank line is skipped",
			line:   "   ",
			wantOK: false,
		},
		{
			name:   "marker without price grammar is skipped",
			line:   "Sản phẩm mới sắp ra mắt",
			wantOK: false,
		},
		{
			name:            "leading whitespace is tolerated",
			line:            "  Sản phẩm Tất cổ trung cotton có giá 29.000đ",
			wantOK:          true,
			wantTitle:       "Tất cổ trung cotton",
			wantCategory:    "Tất",
			wantPrice:       29000,
			wantOriginal:    29000,
			wantDiscountPct: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewParser()
			product, ok := p.ParseLine(tt.line)
			if ok != tt.wantOK {
				t.Fatalf("ParseLine(%q) ok = %v, want %v", tt.line, ok, tt.wantOK)
			}
			if !tt.wantOK {
				return
			}
			if product.Title != tt.wantTitle {
				t.Errorf("Title = %q, want %q", product.Title, tt.wantTitle)
			}
			if product.Category != tt.wantCategory {
				t.Errorf("Category = %q, want %q", product.Category, tt.wantCategory)
			}
			if product.Price != tt.wantPrice {
				t.Errorf("Price = %d, want %d", product.Price, tt.wantPrice)
			}
			if product.OriginalPrice != tt.wantOriginal {
				t.Errorf("OriginalPrice = %d, want %d", product.OriginalPrice, tt.wantOriginal)
			}
			if product.DiscountPercent != tt.wantDiscountPct {
				t.Errorf("DiscountPercent = %d, want %d", product.DiscountPercent, tt.wantDiscountPct)
			}
		})
	}
}

func TestParseLineDescription(t *testing.T) {
	p := NewParser()
	product, ok := p.ParseLine("Sản phẩm Áo Thun Nam Viet Devils - Bật Như Man có giá 329.000đ (Giảm 15% từ 389.000đ)")
	if !ok {
		t.Fatal("expected line to parse")
	}

	want := "Sản phẩm Áo Thun Nam Viet Devils - Bật Như Man thuộc danh mục Áo thun với giá 329,000đ"
	if product.Description != want {
		t.Errorf("Description = %q, want %q", product.Description, want)
	}
}

func TestParseLinesSequentialIDs(t *testing.T) {
	lines := []string{
		"=== DANH SÁCH SẢN PHẨM ===",
		"Sản phẩm Áo Thun Nam Basic có giá 129.000đ",
		"",
		"không phải dòng sản phẩm",
		"Sản phẩm Quần Jogger Nam có giá 349.000đ (Giảm 20% từ 437.000đ)",
		"Sản phẩm Tất thể thao có giá 25.000đ",
	}

	products := NewParser().ParseLines(lines)
	if len(products) != 3 {
		t.Fatalf("got %d products, want 3", len(products))
	}

	wantIDs := []string{"prod_0001", "prod_0002", "prod_0003"}
	for i, want := range wantIDs {
		if products[i].ID != want {
			t.Errorf("products[%d].ID = %q, want %q", i, products[i].ID, want)
		}
	}
}

func TestClassifyTitle(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Áo Thun Nam Cotton Compact", "Áo thun"},
		{"ÁO THUN CHẠY BỘ", "Áo thun"},
		{"Combo T-Shirt trắng", "Áo thun"},
		// "Quần" is checked before "Đồ lót", so underwear titled with "Quần Lót"
		// classifies as "Quần".
		{"Quần Lót Nam Trunk", "Quần"},
		{"Shorts da cá nam", "Quần"},
		{"Áo Polo Nam Pique", "Áo polo"},
		{"Áo Sơ Mi Oxford", "Áo sơ mi"},
		{"Áo Khoác Gió Nam", "Áo khoác"},
		{"Hoodie nỉ chân cua", "Áo khoác"},
		{"Trunk cotton thoáng khí", "Đồ lót"},
		{"Váy liền thân nữ", "Váy"},
		{"Bra thể thao nữ", "Áo bra"},
		{"Legging nữ cạp cao", "Legging"},
		{"Tất cổ ngắn", "Tất"},
		{"Mũ lưỡi trai", "Khác"},
		{"", "Khác"},
	}

	for _, tt := range tests {
		if got := ClassifyTitle(tt.title); got != tt.want {
			t.Errorf("ClassifyTitle(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		amount int64
		want   string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{29000, "29,000"},
		{329000, "329,000"},
		{1250000, "1,250,000"},
		{-45000, "-45,000"},
	}

	for _, tt := range tests {
		if got := FormatPrice(tt.amount); got != tt.want {
			t.Errorf("FormatPrice(%d) = %q, want %q", tt.amount, got, tt.want)
		}
	}
}

func TestCategories(t *testing.T) {
	cats := Categories()
	if len(cats) != 11 {
		t.Fatalf("got %d categories, want 11", len(cats))
	}
	if cats[0] != "Áo thun" {
		t.Errorf("first category = %q, want %q", cats[0], "Áo thun")
	}
	if cats[len(cats)-1] != DefaultCategory {
		t.Errorf("last category = %q, want %q", cats[len(cats)-1], DefaultCategory)
	}
}
