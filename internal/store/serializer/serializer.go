// Package serializer выстраивает задачи записи в строгую очередь.
// Хранилище перечитывает и переписывает целый годовой файл на каждую запись,
// поэтому одновременные записи в одну секцию потеряли бы данные.
package serializer

import "sync"

// Serializer исполняет задачи по одной, в порядке поступления.
// Ошибка задачи не останавливает очередь: следующая задача запускается
// после завершения предыдущей независимо от её исхода.
type Serializer struct {
	mu   sync.Mutex
	tail chan struct{}
}

// New создаёт пустую очередь, готовую к немедленному исполнению.
func New() *Serializer {
	done := make(chan struct{})
	close(done)
	return &Serializer{tail: done}
}

// Do ставит fn в конец очереди, дожидается всех ранее поставленных задач,
// исполняет fn и возвращает её ошибку вызывающей стороне.
func (s *Serializer) Do(fn func() error) error {
	s.mu.Lock()
	prev := s.tail
	done := make(chan struct{})
	s.tail = done
	s.mu.Unlock()

	<-prev
	defer close(done)
	return fn()
}
