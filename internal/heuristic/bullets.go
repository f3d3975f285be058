package heuristic

import (
	"regexp"
	"strings"
)

// 项目与经历解析共用同一套要点归并规则：
// 以项目符号开头的行开启一条新明细，后续不带符号的行视为续行并入当前明细。
// 状态只有两个：无打开明细 / 有打开明细。

var (
	bulletPrefixRe = regexp.MustCompile(`^[•–\-*∗]+\s*`)
	spaceRunRe     = regexp.MustCompile(`\s+`)
)

// bulletAccumulator 要点累加器（micro state machine）
type bulletAccumulator struct {
	details []string
	open    string
	opened  bool
}

// Feed 按文档顺序送入一行已trim的文本
func (b *bulletAccumulator) Feed(line string) {
	if line == "" {
		return
	}
	if isBulletLine(line) {
		b.closeOpen()
		b.open = stripBullet(line)
		b.opened = true
		return
	}
	if b.opened {
		// 续行并入当前打开的明细
		b.open = b.open + " " + line
	}
	// 没有打开的明细时，非要点行被丢弃
}

// Finish 关闭最后一条明细并返回全部结果（已去除符号、折叠空白）
func (b *bulletAccumulator) Finish() []string {
	b.closeOpen()
	return b.details
}

func (b *bulletAccumulator) closeOpen() {
	if !b.opened {
		return
	}
	detail := collapseSpaces(b.open)
	if detail != "" {
		b.details = append(b.details, detail)
	}
	b.open = ""
	b.opened = false
}

func isBulletLine(line string) bool {
	return bulletPrefixRe.MatchString(line)
}

func stripBullet(line string) string {
	return strings.TrimSpace(bulletPrefixRe.ReplaceAllString(line, ""))
}

func collapseSpaces(s string) string {
	return strings.TrimSpace(spaceRunRe.ReplaceAllString(s, " "))
}

// danglingWords 明细不应以这些悬挂的连词/介词结尾，出现说明原文被截断
var danglingWords = map[string]bool{
	"and": true, "or": true, "with": true, "to": true, "of": true,
	"in": true, "for": true, "on": true, "at": true, "the": true, "a": true, "an": true,
}

func endsDangling(detail string) bool {
	fields := strings.Fields(strings.ToLower(strings.TrimRight(detail, ".,;")))
	if len(fields) == 0 {
		return false
	}
	return danglingWords[fields[len(fields)-1]]
}
