package imaging

// Normalize returns buf with its channels laid out in the given order.
//
// Single channel buffers, and buffers already in the requested order, are
// returned as is. Asking for OrderGray never drops color: a three channel
// buffer is returned unchanged, since luminance conversion is the decoder's
// job. Otherwise the red and blue channels are swapped into a new buffer and
// buf is left untouched.
func Normalize(buf *PixelBuffer, order ChannelOrder) *PixelBuffer {
	if buf.Channels == 1 || order == OrderGray || buf.Order == order {
		return buf
	}

	out := &PixelBuffer{
		Width:    buf.Width,
		Height:   buf.Height,
		Channels: buf.Channels,
		Order:    order,
		Pix:      make([]uint8, len(buf.Pix)),
	}
	for i := 0; i+2 < len(buf.Pix); i += 3 {
		out.Pix[i] = buf.Pix[i+2]
		out.Pix[i+1] = buf.Pix[i+1]
		out.Pix[i+2] = buf.Pix[i]
	}
	return out
}
