package client

import (
	"image/color"
	"strconv"
	"strings"
)

// CharacterInfo 角色配色（渲染相关）
type CharacterInfo struct {
	BodyColor    color.RGBA
	OutlineColor color.RGBA
	HandColor    color.RGBA
	ShoeColor    color.RGBA
}

var defaultBody = color.RGBA{255, 255, 255, 255}

// GetCharacterInfo 由角色的十六进制颜色推出整套配色
func GetCharacterInfo(hex string) CharacterInfo {
	body, ok := parseHexColor(hex)
	if !ok {
		body = defaultBody
	}
	return CharacterInfo{
		BodyColor:    body,
		OutlineColor: shade(body, 0.4),
		HandColor:    tint(body, 0.5),
		ShoeColor:    shade(body, 0.25),
	}
}

// parseHexColor 解析 #RRGGBB
func parseHexColor(s string) (color.RGBA, bool) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return color.RGBA{}, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, false
	}
	return color.RGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), 255}, true
}

// shade 按比例变暗
func shade(c color.RGBA, f float64) color.RGBA {
	return color.RGBA{uint8(float64(c.R) * f), uint8(float64(c.G) * f), uint8(float64(c.B) * f), c.A}
}

// tint 按比例混入白色
func tint(c color.RGBA, f float64) color.RGBA {
	mix := func(v uint8) uint8 { return uint8(float64(v) + (255-float64(v))*f) }
	return color.RGBA{mix(c.R), mix(c.G), mix(c.B), c.A}
}
