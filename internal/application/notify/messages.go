package notify

import "fmt"

func BookingCompleted(name string) string {
	return fmt.Sprintf("【自動予約完了】\nセット「%s」の予約を完了しました！\n確認メールまたはサイトで予約状況を確認してください。", name)
}

func BookingFailed(name string, err error) string {
	return fmt.Sprintf("【自動予約失敗】\nセット「%s」の自動予約中にエラーが発生しました。\n詳細: %v", name, err)
}

// BookingDryRun is sent when the flow reached the confirm button without
// pressing it.
func BookingDryRun(name string) string {
	return fmt.Sprintf("【自動予約テスト】\nセット「%s」の予約確定ボタンまで到達しました（確定はしていません）。", name)
}

func CycleFailed(err error) string {
	return fmt.Sprintf("【監視エラー】\n空き状況の確認中にエラーが発生しました。\n詳細: %v", err)
}

func Ping() string {
	return "【テスト通知】\nふもとっぱら予約監視システムからのテストメッセージです。"
}
