package document

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"sync"

	"golang.org/x/sync/singleflight"
)

// renderCache 单文档的页面渲染缓存。条目一经写入即不可变：
// 固定缩放下渲染是 (active 文件, 页号) 的纯函数，无需失效逻辑。
// singleflight 保证同一页至多一个在途渲染，第二个并发请求等待
// 第一个写入缓存而不是重复渲染。
type renderCache struct {
	mu    sync.Mutex
	pages map[int][]byte
	group singleflight.Group
}

// PageImage 返回指定页的 PNG 字节，首次请求时渲染并缓存。
// 渲染失败不写缓存（可能是瞬时故障，后续请求重试）。
func (d *Document) PageImage(ctx context.Context, r Rasterizer, zoom float64, page int) ([]byte, error) {
	if page < 1 || page > d.Pages {
		return nil, NewError(CodeInvalidPage,
			fmt.Sprintf("page %d out of range [1, %d]", page, d.Pages), nil)
	}

	c := &d.render
	c.mu.Lock()
	if data, ok := c.pages[page]; ok {
		c.mu.Unlock()
		return data, nil
	}
	c.mu.Unlock()

	v, err, _ := c.group.Do(fmt.Sprintf("%d", page), func() (interface{}, error) {
		raster, err := r.RenderPage(ctx, d.ActivePath, page, zoom)
		if err != nil {
			return nil, NewError(CodeRenderFailed,
				fmt.Sprintf("render page %d", page), err)
		}
		data, err := encodePNG(raster)
		if err != nil {
			return nil, NewError(CodeRenderFailed,
				fmt.Sprintf("encode page %d", page), err)
		}

		c.mu.Lock()
		if c.pages == nil {
			c.pages = make(map[int][]byte)
		}
		c.pages[page] = data
		c.mu.Unlock()
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// encodePNG 将引擎给出的原始 RGB 像素缓冲编码为 PNG。
func encodePNG(raster *RasterPage) ([]byte, error) {
	if raster.Width <= 0 || raster.Height <= 0 {
		return nil, fmt.Errorf("invalid raster dimensions %dx%d", raster.Width, raster.Height)
	}
	if len(raster.Pix) < raster.Width*raster.Height*3 {
		return nil, fmt.Errorf("raster buffer too short: %d bytes for %dx%d",
			len(raster.Pix), raster.Width, raster.Height)
	}

	img := image.NewNRGBA(image.Rect(0, 0, raster.Width, raster.Height))
	for i := 0; i < raster.Width*raster.Height; i++ {
		img.Pix[i*4+0] = raster.Pix[i*3+0]
		img.Pix[i*4+1] = raster.Pix[i*3+1]
		img.Pix[i*4+2] = raster.Pix[i*3+2]
		img.Pix[i*4+3] = 0xff
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
