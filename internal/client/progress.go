package client

import "io"

// progressReader counts bytes consumed from the wrapped reader and
// reports upload progress as a percentage. Reported values are
// monotonically non-decreasing and bounded in [0, 100].
type progressReader struct {
	r          io.Reader
	total      int64
	read       int64
	last       int
	onProgress func(pct int)
}

func newProgressReader(r io.Reader, total int64, onProgress func(pct int)) *progressReader {
	pr := &progressReader{r: r, total: total, last: -1, onProgress: onProgress}
	pr.report(0)
	return pr
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.read += int64(n)
		p.report(p.percent())
	}
	return n, err
}

// finish forces a terminal 100% report. Called once the server has
// acknowledged the upload, covering empty bodies and rounding.
func (p *progressReader) finish() {
	p.report(100)
}

func (p *progressReader) percent() int {
	if p.total <= 0 {
		return 100
	}
	pct := int(p.read * 100 / p.total)
	if pct > 100 {
		pct = 100
	}
	return pct
}

func (p *progressReader) report(pct int) {
	if p.onProgress == nil || pct <= p.last {
		return
	}
	p.last = pct
	p.onProgress(pct)
}
