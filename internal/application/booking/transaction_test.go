package booking

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/fumoto-monitor/internal/domain/page"
	"github.com/example/fumoto-monitor/internal/domain/page/pagetest"
	"github.com/example/fumoto-monitor/internal/domain/reservation"
	"github.com/example/fumoto-monitor/internal/domain/site"
)

const nightsHTML = `<html><body>
<div class="dialog"><div class="tabs"><div>1泊</div><div>2泊</div></div></div>
<button style="display:none">予約する</button>
<button>閉じる</button>
<button>予約へ進む</button>
</body></html>`

const detailsHTML = `<html><body><form>
<div class="el-form-item"><label>到着時刻</label><div class="el-select"><input readonly placeholder="選択"></div></div>
<ul class="el-select-dropdown"><li class="el-select-dropdown__item">9:00 ～ 10:59</li><li class="el-select-dropdown__item">11:00 ～ 13:59</li></ul>
<div class="el-form-item"><label>大人</label><input type="hidden" name="adults_hidden"><input readonly name="adults_label" value="人"><input name="adults" value="1"></div>
<div class="el-form-item"><label>小学生</label><input name="children" value="0"></div>
<div class="el-form-item"><label>未就学児</label><input name="preschoolers" value="0"></div>
<button>戻る</button><button>次へ</button>
</form></body></html>`

const confirmHTML = `<html><body><button>戻る</button><button>予約を確定する</button></body></html>`

type recorder struct{ sent []string }

func (r *recorder) Send(_ context.Context, text string) error {
	r.sent = append(r.sent, text)
	return nil
}

type snapshots struct{ labels []string }

func (s *snapshots) Capture(_ context.Context, _ page.Page, label string) (string, error) {
	s.labels = append(s.labels, label)
	return "logs/" + label + ".png", nil
}

// flow renders the next page of the reservation form for each clicked label.
func flow(pages map[string]string) *pagetest.Page {
	cal := pagetest.CalendarHTML([]int{3, 4},
		pagetest.Day(3, 27, "木", "△残2"),
		pagetest.Day(3, 28, "金", "〇"),
	)
	p := pagetest.New(site.Fumotoppara().CalendarURL, cal)
	p.OnClick = func(p *pagetest.Page, el *pagetest.Element) error {
		if html, ok := pages[el.Sel.Text()]; ok {
			p.Render(html)
		}
		return nil
	}
	return p
}

func defaultPages() map[string]string {
	return map[string]string{
		"△残2":    nightsHTML,
		"予約へ進む":  detailsHTML,
		"次へ":     confirmHTML,
		"予約を確定する": "<html><body>予約が完了しました</body></html>",
	}
}

func newTransaction() (Transaction, *recorder, *snapshots) {
	log, _ := test.NewNullLogger()
	r := &recorder{}
	s := &snapshots{}
	return Transaction{Layout: site.Fumotoppara().WithoutDelays(), Notifier: r, Snapshots: s, Log: log}, r, s
}

var twoNights = reservation.NotificationSet{
	ID: "1", Name: "GW", StartDate: "2025-03-27", Nights: 2, Adults: 3, Children: 1, Preschoolers: 2, AutoReserve: true,
}

func TestBookHappyPath(t *testing.T) {
	tx, r, s := newTransaction()
	var adults, children, preschoolers string
	p := flow(defaultPages())
	next := p.OnClick
	p.OnClick = func(pg *pagetest.Page, el *pagetest.Element) error {
		if el.Sel.Text() == "次へ" {
			adults = pg.Value("input[name=adults]")
			children = pg.Value("input[name=children]")
			preschoolers = pg.Value("input[name=preschoolers]")
		}
		return next(pg, el)
	}

	out := tx.Book(context.Background(), p, twoNights)

	require.True(t, out.Success, "%v", out.Reason)
	assert.NoError(t, out.Err())
	assert.Equal(t, []string{"3月", "△残2", "2泊", "予約へ進む", "", "11:00 ～ 13:59", "次へ", "予約を確定する"}, p.Clicked)
	assert.Equal(t, "3", adults)
	assert.Equal(t, "1", children)
	assert.Equal(t, "2", preschoolers)
	require.Len(t, r.sent, 1)
	assert.Contains(t, r.sent[0], "【自動予約完了】")
	assert.Empty(t, s.labels)
}

func TestSingleNightSkipsNightsStep(t *testing.T) {
	tx, _, _ := newTransaction()
	p := flow(defaultPages())
	set := twoNights
	set.Nights = 1

	out := tx.Book(context.Background(), p, set)

	require.True(t, out.Success, "%v", out.Reason)
	assert.NotContains(t, p.Clicked, "1泊")
	assert.NotContains(t, p.Clicked, "2泊")
}

func TestOptionalStepsAreBestEffort(t *testing.T) {
	tx, _, _ := newTransaction()
	pages := defaultPages()
	pages["△残2"] = `<button>予約へ進む</button>`
	pages["予約へ進む"] = `<form><button>次へ</button></form>`
	p := flow(pages)

	out := tx.Book(context.Background(), p, twoNights)

	require.True(t, out.Success, "%v", out.Reason)
	assert.Equal(t, []string{"3月", "△残2", "予約へ進む", "次へ", "予約を確定する"}, p.Clicked)
}

func TestFailureBeforeConfirmNeverConfirms(t *testing.T) {
	tx, r, s := newTransaction()
	pages := defaultPages()
	pages["予約へ進む"] = `<form><div class="el-form-item"><label>大人</label><input name="adults"></div><button>戻る</button></form>`
	p := flow(pages)

	out := tx.Book(context.Background(), p, twoNights)

	assert.False(t, out.Success)
	assert.Equal(t, string(AdvanceToConfirm), out.FailedAt)
	require.ErrorIs(t, out.Err(), ErrNextButtonNotFound)
	assert.ErrorIs(t, out.Reason, page.ErrNotFound)
	assert.NotContains(t, p.Clicked, "予約を確定する")
	require.Len(t, r.sent, 1)
	assert.Contains(t, r.sent[0], "【自動予約失敗】\nセット「GW」")
	assert.Equal(t, []string{"reserve_error"}, s.labels)
}

func TestFatalLookupFailures(t *testing.T) {
	cases := []struct {
		name  string
		set   reservation.NotificationSet
		pages func(map[string]string)
		at    State
		err   error
	}{
		{
			name: "month button missing",
			set:  reservation.NotificationSet{ID: "1", Name: "x", StartDate: "2025-05-03", Nights: 1},
			at:   SelectMonth,
			err:  ErrMonthNotFound,
		},
		{
			name: "date column missing",
			set:  reservation.NotificationSet{ID: "1", Name: "x", StartDate: "2025-03-30", Nights: 1},
			at:   SelectDateCell,
			err:  ErrDateCellNotFound,
		},
		{
			name:  "proceed button missing",
			set:   reservation.NotificationSet{ID: "1", Name: "x", StartDate: "2025-03-27", Nights: 1},
			pages: func(m map[string]string) { m["△残2"] = `<button>閉じる</button>` },
			at:    AdvanceToDetails,
			err:   ErrProceedButtonNotFound,
		},
		{
			name:  "confirm button missing",
			set:   reservation.NotificationSet{ID: "1", Name: "x", StartDate: "2025-03-27", Nights: 1},
			pages: func(m map[string]string) { m["次へ"] = `<button>戻る</button>` },
			at:    Confirm,
			err:   ErrConfirmButtonNotFound,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tx, r, _ := newTransaction()
			pages := defaultPages()
			if tc.pages != nil {
				tc.pages(pages)
			}
			out := tx.Book(context.Background(), flow(pages), tc.set)

			assert.False(t, out.Success)
			assert.Equal(t, string(tc.at), out.FailedAt)
			assert.ErrorIs(t, out.Reason, tc.err)
			assert.Len(t, r.sent, 1)
		})
	}
}

func TestDateCellIndexOutOfRange(t *testing.T) {
	tx, _, _ := newTransaction()
	html := `<button>3月</button><table><tr><th></th><th>3/27 木</th><th>3/28 金</th></tr><tr><th>キャンプ宿泊</th><td>〇</td></tr></table>`
	p := pagetest.New(site.Fumotoppara().CalendarURL, html)
	set := reservation.NotificationSet{ID: "1", Name: "x", StartDate: "2025-03-28", Nights: 1}

	out := tx.Book(context.Background(), p, set)
	assert.ErrorIs(t, out.Reason, ErrDateCellIndexInvalid)
}

func TestDryRunStopsAtConfirm(t *testing.T) {
	tx, r, s := newTransaction()
	tx.DryRun = true
	p := flow(defaultPages())

	out := tx.Book(context.Background(), p, twoNights)

	assert.True(t, out.DryRun)
	assert.False(t, out.Success)
	assert.NoError(t, out.Err())
	assert.NotContains(t, p.Clicked, "予約を確定する")
	require.Len(t, r.sent, 1)
	assert.Contains(t, r.sent[0], "【自動予約テスト】")
	assert.Empty(t, s.labels)
}

func TestCancelledContextFailsOptionalStep(t *testing.T) {
	tx, _, _ := newTransaction()
	tx.Layout.Delays.AfterNights = time.Hour
	ctx, cancel := context.WithCancel(context.Background())
	p := flow(defaultPages())
	next := p.OnClick
	p.OnClick = func(pg *pagetest.Page, el *pagetest.Element) error {
		if el.Sel.Text() == "2泊" {
			cancel()
		}
		return next(pg, el)
	}

	out := tx.Book(ctx, p, twoNights)

	assert.Equal(t, string(SelectNights), out.FailedAt)
	assert.ErrorIs(t, out.Reason, context.Canceled)
	assert.NotContains(t, p.Clicked, "予約へ進む")
}
