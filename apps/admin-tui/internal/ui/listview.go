package ui

import (
	"fmt"
	"strings"
)

// DefaultPageSize はリスト画面の1ページあたりの件数
const DefaultPageSize = 50

// ListView は一覧画面の絞り込みとページ送りの状態を保持する。
// 絞り込みは values が返すいずれかの値への大文字小文字を区別しない部分一致。
type ListView[T any] struct {
	items    []T
	values   func(T) []string
	query    string
	page     int
	pageSize int
}

// NewListView は新しいListViewを生成する。
func NewListView[T any](pageSize int, values func(T) []string) *ListView[T] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &ListView[T]{values: values, pageSize: pageSize}
}

// SetItems は表示対象を差し替える。ページは範囲内に補正される。
func (v *ListView[T]) SetItems(items []T) {
	v.items = items
	v.clampPage()
}

// SetQuery は絞り込み文字列を設定し、先頭ページに戻す。
func (v *ListView[T]) SetQuery(query string) {
	v.query = strings.TrimSpace(query)
	v.page = 0
}

// Query は現在の絞り込み文字列を返す。
func (v *ListView[T]) Query() string {
	return v.query
}

// Filtering は絞り込み中かどうかを返す。
func (v *ListView[T]) Filtering() bool {
	return v.query != ""
}

// Visible は絞り込み後の全件を返す。
func (v *ListView[T]) Visible() []T {
	if !v.Filtering() {
		return v.items
	}
	q := strings.ToLower(v.query)
	var out []T
	for _, item := range v.items {
		for _, s := range v.values(item) {
			if strings.Contains(strings.ToLower(s), q) {
				out = append(out, item)
				break
			}
		}
	}
	return out
}

// Page は現在ページの要素を返す。
func (v *ListView[T]) Page() []T {
	visible := v.Visible()
	start, end := v.bounds(len(visible))
	return visible[start:end]
}

// At は現在ページ内のi番目の要素を返す。
func (v *ListView[T]) At(i int) (T, bool) {
	page := v.Page()
	if i < 0 || i >= len(page) {
		var zero T
		return zero, false
	}
	return page[i], true
}

// Pages は総ページ数を返す（0件でも1）。
func (v *ListView[T]) Pages() int {
	return pageCount(len(v.Visible()), v.pageSize)
}

// NextPage は次ページへ移動する。移動しなかった場合はfalse。
func (v *ListView[T]) NextPage() bool {
	if v.page+1 >= v.Pages() {
		return false
	}
	v.page++
	return true
}

// PrevPage は前ページへ移動する。
func (v *ListView[T]) PrevPage() bool {
	if v.page == 0 {
		return false
	}
	v.page--
	return true
}

// FirstPage は先頭ページへ移動する。
func (v *ListView[T]) FirstPage() {
	v.page = 0
}

// LastPage は最終ページへ移動する。
func (v *ListView[T]) LastPage() {
	v.page = v.Pages() - 1
}

// Info はタイトル表示用の位置情報を返す。
func (v *ListView[T]) Info() string {
	total := len(v.Visible())
	if total == 0 {
		return "No items"
	}
	start, end := v.bounds(total)
	return fmt.Sprintf("%d-%d of %d (Page %d/%d)", start+1, end, total, v.page+1, v.Pages())
}

func (v *ListView[T]) clampPage() {
	if last := v.Pages() - 1; v.page > last {
		v.page = last
	}
}

func (v *ListView[T]) bounds(total int) (start, end int) {
	start = v.page * v.pageSize
	if start > total {
		start = total
	}
	end = start + v.pageSize
	if end > total {
		end = total
	}
	return start, end
}

func pageCount(total, size int) int {
	if total == 0 {
		return 1
	}
	return (total + size - 1) / size
}
