package imaging

import "image"

// Close runs a dilation followed by an erosion with a kw×kh rectangle
// anchored at (kw/2, kh/2). It bridges small gaps in white strokes.
// Pixels outside the image are ignored.
func Close(gray *image.Gray, kw, kh, iterations int) *image.Gray {
	out := ToGray(gray)
	for i := 0; i < iterations; i++ {
		out = morph(out, kw, kh, true)
		out = morph(out, kw, kh, false)
	}
	return out
}

// Dilate spreads white pixels over a kw×kh rectangle.
func Dilate(gray *image.Gray, kw, kh int) *image.Gray {
	return morph(ToGray(gray), kw, kh, true)
}

// Erode shrinks white regions by a kw×kh rectangle.
func Erode(gray *image.Gray, kw, kh int) *image.Gray {
	return morph(ToGray(gray), kw, kh, false)
}

func morph(src *image.Gray, kw, kh int, dilate bool) *image.Gray {
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	dst := image.NewGray(image.Rect(0, 0, w, h))
	if kw <= 1 && kh <= 1 {
		copy(dst.Pix, src.Pix)
		return dst
	}
	ax, ay := kw/2, kh/2

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var v uint8
			if !dilate {
				v = 255
			}
			for ky := -ay; ky < kh-ay; ky++ {
				ny := y + ky
				if ny < 0 || ny >= h {
					continue
				}
				for kx := -ax; kx < kw-ax; kx++ {
					nx := x + kx
					if nx < 0 || nx >= w {
						continue
					}
					p := src.Pix[ny*src.Stride+nx]
					if dilate && p > v || !dilate && p < v {
						v = p
					}
				}
			}
			dst.Pix[y*dst.Stride+x] = v
		}
	}
	return dst
}
