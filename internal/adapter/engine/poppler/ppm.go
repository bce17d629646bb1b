package poppler

import (
	"fmt"

	"docsearcher/internal/domain/document"
)

// parsePPM 解析二进制 PPM (P6)：头部为魔数、宽、高、最大色值，
// 之后紧跟 width*height*3 字节 RGB 数据。支持 # 注释。
func parsePPM(data []byte) (*document.RasterPage, error) {
	p := &ppmReader{data: data}

	if magic := p.token(); magic != "P6" {
		return nil, fmt.Errorf("unexpected magic %q", magic)
	}
	width, err := p.intToken()
	if err != nil {
		return nil, fmt.Errorf("width: %w", err)
	}
	height, err := p.intToken()
	if err != nil {
		return nil, fmt.Errorf("height: %w", err)
	}
	maxval, err := p.intToken()
	if err != nil {
		return nil, fmt.Errorf("maxval: %w", err)
	}
	if maxval != 255 {
		return nil, fmt.Errorf("unsupported maxval %d", maxval)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid dimensions %dx%d", width, height)
	}

	// 头部结束后恰好一个空白字符，随后是像素数据。
	pix := p.rest()
	need := width * height * 3
	if len(pix) < need {
		return nil, fmt.Errorf("truncated pixel data: have %d, need %d", len(pix), need)
	}

	return &document.RasterPage{Width: width, Height: height, Pix: pix[:need]}, nil
}

type ppmReader struct {
	data []byte
	pos  int
}

func (p *ppmReader) skipSpace() {
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		if c == '#' {
			for p.pos < len(p.data) && p.data[p.pos] != '\n' {
				p.pos++
			}
			continue
		}
		if c != ' ' && c != '\t' && c != '\r' && c != '\n' {
			return
		}
		p.pos++
	}
}

func (p *ppmReader) token() string {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		if c == ' ' || c == '\t' || c == '\r' || c == '\n' {
			break
		}
		p.pos++
	}
	return string(p.data[start:p.pos])
}

func (p *ppmReader) intToken() (int, error) {
	tok := p.token()
	if tok == "" {
		return 0, fmt.Errorf("unexpected end of header")
	}
	n := 0
	for i := 0; i < len(tok); i++ {
		if tok[i] < '0' || tok[i] > '9' {
			return 0, fmt.Errorf("not a number: %q", tok)
		}
		n = n*10 + int(tok[i]-'0')
	}
	return n, nil
}

// rest 跳过头部结尾的单个空白字符，返回像素数据。
func (p *ppmReader) rest() []byte {
	if p.pos < len(p.data) {
		p.pos++
	}
	return p.data[p.pos:]
}
