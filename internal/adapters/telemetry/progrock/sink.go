package progrock

import (
	"bytes"
	"cmp"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/vito/progrock"
	"go.trai.ch/mill/internal/core/ports"
	"go.trai.ch/zerr"
)

// LogSink is a progrock.Writer that replays vertex output through a logger,
// one message per line. Standard output is logged as info, error output as
// an error. Partial lines are held until the vertex completes.
type LogSink struct {
	logger ports.Logger

	mu      sync.Mutex
	pending map[streamKey]*bytes.Buffer
}

type streamKey struct {
	vertex string
	stream progrock.LogStream
}

var _ progrock.Writer = (*LogSink)(nil)

// NewLogSink creates a LogSink writing to logger.
func NewLogSink(logger ports.Logger) *LogSink {
	return &LogSink{
		logger:  logger,
		pending: make(map[streamKey]*bytes.Buffer),
	}
}

// WriteStatus consumes one status update.
func (s *LogSink) WriteStatus(update *progrock.StatusUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, l := range update.GetLogs() {
		key := streamKey{vertex: l.GetVertex(), stream: l.GetStream()}
		buf, ok := s.pending[key]
		if !ok {
			buf = new(bytes.Buffer)
			s.pending[key] = buf
		}
		buf.Write(l.GetData())
		s.drain(key.stream, buf)
	}

	for _, v := range update.GetVertexes() {
		if v.GetCompleted() != nil {
			s.flush(v.GetId())
		}
	}
	return nil
}

// Close emits every line still buffered.
func (s *LogSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := slices.SortedFunc(maps.Keys(s.pending), func(a, b streamKey) int {
		return cmp.Or(cmp.Compare(a.vertex, b.vertex), cmp.Compare(a.stream, b.stream))
	})
	for _, key := range keys {
		s.emitRest(key)
	}
	return nil
}

// drain emits every complete line of buf and keeps the remainder.
func (s *LogSink) drain(stream progrock.LogStream, buf *bytes.Buffer) {
	for {
		line, err := buf.ReadString('\n')
		if err != nil {
			buf.Reset()
			buf.WriteString(line)
			return
		}
		s.emit(stream, strings.TrimSuffix(line, "\n"))
	}
}

func (s *LogSink) flush(vertex string) {
	s.emitRest(streamKey{vertex: vertex, stream: progrock.LogStream_STDOUT})
	s.emitRest(streamKey{vertex: vertex, stream: progrock.LogStream_STDERR})
}

func (s *LogSink) emitRest(key streamKey) {
	buf, ok := s.pending[key]
	if !ok {
		return
	}
	delete(s.pending, key)
	if buf.Len() > 0 {
		s.emit(key.stream, buf.String())
	}
}

func (s *LogSink) emit(stream progrock.LogStream, line string) {
	if stream == progrock.LogStream_STDERR {
		s.logger.Error(zerr.New(line))
		return
	}
	s.logger.Info(line)
}
