package document

import (
	"os"
	"sync"
	"time"

	applog "docsearcher/internal/platform/log"
)

// StoreConfig Store 构造参数。Now 为空时使用 time.Now（测试可注入）。
type StoreConfig struct {
	Expiry        time.Duration
	CleanInterval time.Duration
	Now           func() time.Time
}

// Store 进程级文档注册表。持有每份文档的磁盘文件、索引与渲染缓存，
// 通过基于扫描的过期清理回收闲置文档。
type Store struct {
	mu            sync.Mutex
	docs          map[string]*Document
	lastSweep     time.Time
	expiry        time.Duration
	cleanInterval time.Duration
	now           func() time.Time
}

// NewStore 创建文档注册表。
func NewStore(cfg StoreConfig) *Store {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Store{
		docs:          make(map[string]*Document),
		expiry:        cfg.Expiry,
		cleanInterval: cfg.CleanInterval,
		now:           now,
	}
}

// Put 插入或替换文档条目。
func (s *Store) Put(doc *Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[doc.ID] = doc
}

// Get 按 id 查找文档，命中时更新 LastAccess。
func (s *Store) Get(id string) (*Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[id]
	if !ok {
		return nil, NewError(CodeNotFound, "document not found", nil)
	}
	doc.LastAccess = s.now()
	return doc, nil
}

// Len 返回当前文档数量。
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.docs)
}

// Sweep 扫描并移除超过过期窗口未访问的文档，尽力删除其磁盘文件。
// 距上次清理不足 CleanInterval 时为空操作。
func (s *Store) Sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if now.Sub(s.lastSweep) < s.cleanInterval {
		return
	}
	s.lastSweep = now

	for id, doc := range s.docs {
		if now.Sub(doc.LastAccess) <= s.expiry {
			continue
		}
		removeQuietly(doc.OriginalPath)
		if doc.OCRPath != "" {
			removeQuietly(doc.OCRPath)
		}
		delete(s.docs, id)
		applog.Info("[Store] Expired document removed", "doc_id", id, "filename", doc.Filename)
	}
}

// removeQuietly 尽力删除文件：记录结果，绝不向上传播失败。
// 清理与摄取失败回滚统一使用此入口。
func removeQuietly(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		applog.Warn("[Store] Failed to remove file", "path", path, "error", err)
	}
}
