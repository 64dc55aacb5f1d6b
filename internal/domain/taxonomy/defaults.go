package taxonomy

import (
	"github.com/okian/wasuremon/internal/domain/model"
	"github.com/okian/wasuremon/internal/domain/types"
)

// Reserved ids.
const (
	// OtherCategoryID receives labels the fixed table does not know.
	OtherCategoryID = "other"
	// NoneItemTypeID marks a "did not forget" record.
	NoneItemTypeID = "none"
	// NoneLabel is the display name of the "did not forget" item.
	NoneLabel = "did not forget"
	// AllName is the display name of the per-kind sentinel.
	AllName = "All"
)

var allEmoji = map[types.Kind]string{
	types.KindCategory:  "🗂️",
	types.KindItemType:  "🎒",
	types.KindSituation: "🌐",
}

// All returns the synthetic "All" sentinel for kind. Its id is empty.
func All(kind types.Kind) model.TaxonomyEntry {
	return model.TaxonomyEntry{ID: "", Name: AllName, Emoji: allEmoji[kind], Kind: kind}
}

// IsAll reports whether e is the sentinel for its kind.
func IsAll(e model.TaxonomyEntry) bool {
	return e.ID == "" && e.Name == AllName
}

// IsNone reports whether e is the "did not forget" item.
func IsNone(e model.TaxonomyEntry) bool {
	return e.ID == NoneItemTypeID || e.Name == NoneLabel
}

// Defaults returns the built-in taxonomy. Each call returns fresh slices.
func Defaults() model.Taxonomy {
	return model.Taxonomy{
		Categories: []model.TaxonomyEntry{
			{ID: "valuables", Name: "貴重品", Emoji: "💎"},
			{ID: "gadgets", Name: "電子機器", Emoji: "📱"},
			{ID: "documents", Name: "書類", Emoji: "📄"},
			{ID: "daily", Name: "日用品", Emoji: "🧴"},
			{ID: "clothing", Name: "衣類", Emoji: "👕"},
			{ID: OtherCategoryID, Name: "その他", Emoji: "❓"},
		},
		ItemTypes: []model.TaxonomyEntry{
			{ID: "key", Name: "鍵", Emoji: "🔑", CategoryID: "valuables"},
			{ID: "wallet", Name: "財布", Emoji: "👛", CategoryID: "valuables"},
			{ID: "commuter_pass", Name: "定期券", Emoji: "🎫", CategoryID: "valuables"},
			{ID: "phone", Name: "スマホ", Emoji: "📱", CategoryID: "gadgets"},
			{ID: "charger", Name: "充電器", Emoji: "🔌", CategoryID: "gadgets"},
			{ID: "earphones", Name: "イヤホン", Emoji: "🎧", CategoryID: "gadgets"},
			{ID: "paperwork", Name: "プリント", Emoji: "🗒️", CategoryID: "documents"},
			{ID: "textbook", Name: "教科書", Emoji: "📚", CategoryID: "documents"},
			{ID: "homework", Name: "宿題", Emoji: "📝", CategoryID: "documents"},
			{ID: "umbrella", Name: "傘", Emoji: "☔", CategoryID: "daily"},
			{ID: "lunch", Name: "弁当", Emoji: "🍱", CategoryID: "daily"},
			{ID: "water_bottle", Name: "水筒", Emoji: "🥤", CategoryID: "daily"},
			{ID: "mask", Name: "マスク", Emoji: "😷", CategoryID: "daily"},
			{ID: "jacket", Name: "上着", Emoji: "🧥", CategoryID: "clothing"},
			{ID: "hat", Name: "帽子", Emoji: "🧢", CategoryID: "clothing"},
			{ID: NoneItemTypeID, Name: NoneLabel, Emoji: "✅", CategoryID: OtherCategoryID},
		},
		Situations: []model.TaxonomyEntry{
			{ID: "rushing", Name: "急いでいた", Emoji: "🏃"},
			{ID: "weather", Name: "天気が悪かった", Emoji: "🌧️"},
			{ID: "tired", Name: "疲れていた", Emoji: "😪"},
			{ID: "chatting", Name: "話しながら", Emoji: "💬"},
			{ID: "drinking", Name: "飲み会の後", Emoji: "🍻"},
		},
	}
}
