package extract

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plotloom/plotloom/internal/store"
)

const importLog = `# 测试小说

## **剧情日志**

### **第2章：旧识**

* **剧情进展:** 林尘在坊市遇到昔日同门赵恒。
* **角色状态:** **林尘**：心生疑虑。**赵恒**：言辞闪烁。
* **关键线索:** 赵恒手中的玉简刻着宗门封印的残纹，似与灭门旧案有关。

### **第1章：下山**

* **剧情进展:** 林尘奉师命下山历练。
* **角色状态:** **林尘（主角）**：初入江湖。
* **关键线索:** 无

### **第9章：残页**

胡乱写的一段，没有任何标签。
`

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	docs, err := store.OpenDocStore(filepath.Join(t.TempDir(), "plotloom.db"))
	require.NoError(t, err)
	t.Cleanup(func() { docs.Close() })

	st, err := store.NewStore(docs, "test-project", zerolog.Nop())
	require.NoError(t, err)
	return st
}

func TestImportLog(t *testing.T) {
	st := newTestStore(t)
	im := NewImporter(st, zerolog.Nop())

	res, err := im.ImportLog(importLog)
	require.NoError(t, err)

	assert.Equal(t, 3, res.Chapters)
	assert.Zero(t, res.Skipped)
	assert.Equal(t, 2, res.Characters)
	assert.Equal(t, 1, res.Threads)

	// Summaries come out sorted by chapter even though the log is newest-first.
	sums := st.Summaries()
	require.Len(t, sums, 3)
	assert.Equal(t, 1, sums[0].ChapterNum)
	assert.Equal(t, 2, sums[1].ChapterNum)
	assert.Equal(t, "下山", sums[0].Title)
	// The unlabeled block imports with empty fields rather than failing.
	assert.Equal(t, 9, sums[2].ChapterNum)
	assert.Empty(t, sums[2].ContentSummary)

	threads := st.Threads()
	require.Len(t, threads, 1)
	assert.Equal(t, "thread_1", threads[0].ID)
	assert.Equal(t, 2, threads[0].FirstChapter)
	assert.Contains(t, threads[0].Description, "灭门旧案")
}

func TestImportLogIdempotentCharacters(t *testing.T) {
	st := newTestStore(t)
	im := NewImporter(st, zerolog.Nop())

	_, err := im.ImportLog(importLog)
	require.NoError(t, err)

	chars := st.Characters()
	chars["林尘"] = store.CharacterInfo{Name: "林尘", Description: "手工修订"}
	require.NoError(t, st.SaveCharacters())

	res, err := im.ImportLog(importLog)
	require.NoError(t, err)
	assert.Zero(t, res.Characters)
	assert.Equal(t, "手工修订", st.Characters()["林尘"].Description)
}

func TestImportLogWithoutSection(t *testing.T) {
	st := newTestStore(t)
	im := NewImporter(st, zerolog.Nop())

	res, err := im.ImportLog("# 没有日志的文档\n")
	require.NoError(t, err)
	assert.Zero(t, res.Chapters)
	assert.Zero(t, res.Skipped)
}

func TestImportLogThreadIDsContinue(t *testing.T) {
	st := newTestStore(t)
	st.AddThreads(store.PlotThread{ID: "thread_5", Status: store.StatusActive})

	im := NewImporter(st, zerolog.Nop())
	res, err := im.ImportLog(importLog)
	require.NoError(t, err)
	require.Equal(t, 1, res.Threads)

	threads := st.Threads()
	require.Len(t, threads, 2)
	assert.Equal(t, "thread_6", threads[1].ID)
}
