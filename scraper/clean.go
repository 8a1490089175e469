package scraper

import (
	"regexp"
	"strings"
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	blankRun      = regexp.MustCompile(` {2,}`)

	boilerplate = []*regexp.Regexp{
		regexp.MustCompile(`(?i)cookie.*?設定`),
		regexp.MustCompile(`プライバシーポリシー|利用規約|サイトマップ|ページトップ`),
		regexp.MustCompile(`メニュー|ナビゲーション|フッター|ヘッダー`),
		regexp.MustCompile(`広告|スポンサー|関連記事|おすすめ|人気記事|ランキング`),
		regexp.MustCompile(`タグ:|カテゴリ:|投稿日:|更新日:|作成者:`),
		regexp.MustCompile(`シェア|ツイート|いいね|コメント|購読`),
		regexp.MustCompile(`ログイン|ログアウト|マイページ|お気に入り|ブックマーク|登録`),
		regexp.MustCompile(`(?i)\b(?:privacy policy|terms of (?:use|service)|sitemap|back to top|log ?in|log ?out|sign up|subscribe|share on \w+)\b`),
		regexp.MustCompile(`\bPR\b`),
	}
)

// CleanScrapedText collapses whitespace and strips navigation and social
// boilerplate commonly found on listing sites.
func CleanScrapedText(text string) string {
	text = whitespaceRun.ReplaceAllString(text, " ")
	for _, re := range boilerplate {
		text = re.ReplaceAllString(text, "")
	}
	text = blankRun.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
