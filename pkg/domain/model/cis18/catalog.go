package cis18

import (
	"strconv"

	"github.com/secmon-lab/cisboard/pkg/domain/types"
)

// Locale selects the language of control and column labels
type Locale string

const (
	LocaleEN Locale = "en"
	LocaleJA Locale = "ja"
)

// ParseLocale returns the locale for s, defaulting to English.
func ParseLocale(s string) Locale {
	switch Locale(s) {
	case LocaleJA:
		return LocaleJA
	default:
		return LocaleEN
	}
}

// Control is one entry of the CIS Controls v8 catalog
type Control struct {
	Number int
	Column types.ColumnID
	names  map[Locale]string
}

// Name returns the control title in the given locale
func (c Control) Name(locale Locale) string {
	if n, ok := c.names[locale]; ok {
		return n
	}
	return c.names[LocaleEN]
}

var catalog = [types.ControlCount]map[Locale]string{
	{LocaleEN: "Inventory and Control of Enterprise Assets", LocaleJA: "企業資産のインベントリと管理"},
	{LocaleEN: "Inventory and Control of Software Assets", LocaleJA: "ソフトウェア資産のインベントリと管理"},
	{LocaleEN: "Data Protection", LocaleJA: "データ保護"},
	{LocaleEN: "Secure Configuration of Enterprise Assets and Software", LocaleJA: "企業資産とソフトウェアのセキュアな設定"},
	{LocaleEN: "Account Management", LocaleJA: "アカウント管理"},
	{LocaleEN: "Access Control Management", LocaleJA: "アクセス制御管理"},
	{LocaleEN: "Continuous Vulnerability Management", LocaleJA: "継続的な脆弱性管理"},
	{LocaleEN: "Audit Log Management", LocaleJA: "監査ログ管理"},
	{LocaleEN: "Email and Web Browser Protections", LocaleJA: "電子メールとWebブラウザの保護"},
	{LocaleEN: "Malware Defenses", LocaleJA: "マルウェア対策"},
	{LocaleEN: "Data Recovery", LocaleJA: "データ復旧"},
	{LocaleEN: "Network Infrastructure Management", LocaleJA: "ネットワークインフラ管理"},
	{LocaleEN: "Network Monitoring and Defense", LocaleJA: "ネットワークの監視と防御"},
	{LocaleEN: "Security Awareness and Skills Training", LocaleJA: "セキュリティ意識向上とスキルトレーニング"},
	{LocaleEN: "Service Provider Management", LocaleJA: "サービスプロバイダー管理"},
	{LocaleEN: "Application Software Security", LocaleJA: "アプリケーションソフトウェアセキュリティ"},
	{LocaleEN: "Incident Response Management", LocaleJA: "インシデント対応管理"},
	{LocaleEN: "Penetration Testing", LocaleJA: "ペネトレーションテスト"},
}

// Controls returns the 18 controls in catalog order
func Controls() []Control {
	out := make([]Control, types.ControlCount)
	for i := range catalog {
		out[i] = Control{Number: i + 1, Column: types.ControlColumn(i + 1), names: catalog[i]}
	}
	return out
}

// ControlByNumber returns the n-th control (1-based)
func ControlByNumber(n int) (Control, bool) {
	if n < 1 || n > types.ControlCount {
		return Control{}, false
	}
	return Control{Number: n, Column: types.ControlColumn(n), names: catalog[n-1]}, true
}

var totalScoreLabel = map[Locale]string{
	LocaleEN: "Total Score",
	LocaleJA: "総合スコア",
}

var dateLabel = map[Locale]string{
	LocaleEN: "Assessment Date",
	LocaleJA: "評価日",
}

// ColumnLabel returns the header label of a table column. Control columns are
// prefixed with their CIS number ("CIS 5: Account Management").
func ColumnLabel(col types.ColumnID, locale Locale) string {
	if col == types.ColumnTotalScore {
		return lookup(totalScoreLabel, locale)
	}
	if c, ok := ControlByNumber(col.ControlNumber()); ok {
		return "CIS " + strconv.Itoa(c.Number) + ": " + c.Name(locale)
	}
	return string(col)
}

// DateLabel returns the header label of the assessment date column
func DateLabel(locale Locale) string {
	return lookup(dateLabel, locale)
}

func lookup(m map[Locale]string, locale Locale) string {
	if v, ok := m[locale]; ok {
		return v
	}
	return m[LocaleEN]
}
