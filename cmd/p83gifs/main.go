// Package main は p83gifs コマンドのエントリーポイントです。
package main

func main() {
	Execute()
}
