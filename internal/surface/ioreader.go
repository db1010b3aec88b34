package surface

// readBufSize and maxCoalesce are spec §4.5's literal constants.
const (
	readBufSize = 1024
	maxCoalesce = 16
)

// RunIoReader is the blocking read loop (spec C5/§4.5): it feeds every
// chunk read off the pseudo-console into the VT parser and the OSC
// scanner under the Surface's render-state mutex, coalescing up to
// maxCoalesce extra reads per lock acquisition so a fast-streaming
// child doesn't starve the renderer of the lock.
func RunIoReader(s *Surface) {
	defer close(s.ioDone)

	buf := make([]byte, readBufSize)

	for {
		n, err := s.Pty.Read(buf)
		if n == 0 || err != nil {
			s.Exited.Store(true)
			return
		}

		s.Render.Mu.Lock()

		var batch []oscMatch
		batch = append(batch, scanOscSequences(buf[:n])...)
		s.Render.Terminal.Feed(buf[:n])

		for coalesced := 0; coalesced < maxCoalesce; coalesced++ {
			available, err := s.Pty.BytesAvailable()
			if err != nil || available == 0 {
				break
			}
			n, err := s.Pty.Read(buf)
			if n == 0 || err != nil {
				break
			}
			batch = append(batch, scanOscSequences(buf[:n])...)
			s.Render.Terminal.Feed(buf[:n])
		}

		if len(batch) > 0 {
			s.applyOscBatch(batch)
		}

		s.Dirty.Store(true)
		s.Render.Mu.Unlock()
	}
}
