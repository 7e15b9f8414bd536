package cis18

// DisplayGroup is one of the three 6-control sections of the dashboard cards
type DisplayGroup struct {
	Key      string
	Controls [6]int
	names    map[Locale]string
}

// Name returns the localized group title
func (g DisplayGroup) Name(locale Locale) string {
	return lookup(g.names, locale)
}

// Mean returns the subtotal of the group over s
func (g DisplayGroup) Mean(s Scores) int {
	return MeanOf(s.Subset(g.Controls[:]...)...)
}

var displayGroups = []DisplayGroup{
	{
		Key:      "basic",
		Controls: [6]int{1, 2, 3, 4, 5, 6},
		names:    map[Locale]string{LocaleEN: "Basic Controls", LocaleJA: "基本的なコントロール"},
	},
	{
		Key:      "foundational",
		Controls: [6]int{7, 8, 9, 10, 11, 12},
		names:    map[Locale]string{LocaleEN: "Foundational Controls", LocaleJA: "基盤的なコントロール"},
	},
	{
		Key:      "organizational",
		Controls: [6]int{13, 14, 15, 16, 17, 18},
		names:    map[Locale]string{LocaleEN: "Organizational Controls", LocaleJA: "組織的なコントロール"},
	},
}

// DisplayGroups returns the fixed card-view partition of the 18 controls
func DisplayGroups() []DisplayGroup {
	out := make([]DisplayGroup, len(displayGroups))
	copy(out, displayGroups)
	return out
}

// EntryPair is a two-control section of the manual entry form. Pairs are independent
// of the display groups.
type EntryPair struct {
	Key      string
	Controls [2]int
	names    map[Locale]string
}

// Name returns the localized pair title
func (p EntryPair) Name(locale Locale) string {
	return lookup(p.names, locale)
}

var entryPairs = []EntryPair{
	{Key: "asset_inventory", Controls: [2]int{1, 2},
		names: map[Locale]string{LocaleEN: "Asset Inventory", LocaleJA: "資産インベントリ"}},
	{Key: "data_configuration", Controls: [2]int{3, 4},
		names: map[Locale]string{LocaleEN: "Data & Configuration", LocaleJA: "データと設定"}},
	{Key: "identity_access", Controls: [2]int{5, 6},
		names: map[Locale]string{LocaleEN: "Identity & Access", LocaleJA: "アイデンティティとアクセス"}},
	{Key: "vulnerabilities_logging", Controls: [2]int{7, 8},
		names: map[Locale]string{LocaleEN: "Vulnerabilities & Logging", LocaleJA: "脆弱性とログ"}},
	{Key: "email_browser_malware", Controls: [2]int{9, 10},
		names: map[Locale]string{LocaleEN: "Email, Browser & Malware", LocaleJA: "メール・ブラウザ・マルウェア"}},
	{Key: "recovery_network", Controls: [2]int{11, 12},
		names: map[Locale]string{LocaleEN: "Recovery & Network Infrastructure", LocaleJA: "復旧とネットワークインフラ"}},
	{Key: "monitoring_awareness", Controls: [2]int{13, 14},
		names: map[Locale]string{LocaleEN: "Network Monitoring & Awareness", LocaleJA: "ネットワーク監視と意識向上"}},
	{Key: "providers_applications", Controls: [2]int{15, 16},
		names: map[Locale]string{LocaleEN: "Service Providers & Applications", LocaleJA: "サービスプロバイダーとアプリケーション"}},
	{Key: "incident_pentest", Controls: [2]int{17, 18},
		names: map[Locale]string{LocaleEN: "Incident Response & Pen Testing", LocaleJA: "インシデント対応とペネトレーションテスト"}},
}

// EntryPairs returns the 9 pairings used by the entry form
func EntryPairs() []EntryPair {
	out := make([]EntryPair, len(entryPairs))
	copy(out, entryPairs)
	return out
}
