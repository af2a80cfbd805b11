package adapter

import (
	"fmt"
)

// adapterRegistry は、アダプタ名とPageParser実装のマッピングを保持します。
var adapterRegistry = map[string]func() PageParser{
	"phpbb": NewPhpBBAdapter,
}

// GetAdapter は、指定された名前に対応するPageParserの新しいインスタンスを返します。
func GetAdapter(name string) (PageParser, error) {
	factory, ok := adapterRegistry[name]
	if !ok {
		return nil, fmt.Errorf("アダプタ名 '%s' に対応するアダプタが見つかりません", name)
	}
	return factory(), nil
}
