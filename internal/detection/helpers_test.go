package detection

// createPixelBuffer creates a solid RGBA buffer
func createPixelBuffer(width, height int, r, g, b uint8) PixelBuffer {
	buf := NewPixelBuffer(width, height)
	for i := 0; i < len(buf.Pix); i += 4 {
		buf.Pix[i] = r
		buf.Pix[i+1] = g
		buf.Pix[i+2] = b
		buf.Pix[i+3] = 255
	}
	return buf
}

// fillRect paints the inclusive-exclusive rectangle [x1,x2) x [y1,y2)
func fillRect(buf PixelBuffer, x1, y1, x2, y2 int, r, g, b uint8) {
	for y := y1; y < y2; y++ {
		for x := x1; x < x2; x++ {
			i := (y*buf.Width + x) * 4
			buf.Pix[i] = r
			buf.Pix[i+1] = g
			buf.Pix[i+2] = b
			buf.Pix[i+3] = 255
		}
	}
}

// maskFromRows builds a mask from rows of '#' (foreground) and '.' (background)
func maskFromRows(rows ...string) BinaryMask {
	mask := BinaryMask{
		Width:  len(rows[0]),
		Height: len(rows),
		Bits:   make([]uint8, len(rows[0])*len(rows)),
	}
	for y, row := range rows {
		for x, ch := range row {
			if ch == '#' {
				mask.Bits[y*mask.Width+x] = 1
			}
		}
	}
	return mask
}

// grayFromValues builds a 1-row gray buffer
func grayFromValues(values ...uint8) GrayBuffer {
	return GrayBuffer{Width: len(values), Height: 1, Pix: values}
}
