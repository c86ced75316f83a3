package app

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/gonewx/archery/pkg/config"
	"github.com/gonewx/archery/pkg/embedded"
	"github.com/gonewx/archery/pkg/game"
	"github.com/gonewx/archery/pkg/scenes"
)

const testLevel = `
levelNumber: 2
levelName: "测试"
maxArrows: 4
targetCount: 1
targets:
  - center: [0, 1.5, 10]
`

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"data/levels/level-2.yaml": {Data: []byte(testLevel)},
		"data/levels/level-5.yaml": {Data: []byte("levelNumber: 5\nlevelName: \"五\"\n")},
		"data/bow.yaml":            {Data: []byte("spawn:\n  spawnDelay: 0.2\n")},
	}
}

func TestNewSceneFactory(t *testing.T) {
	session := game.NewSession(nil, game.SessionOptions{})
	var customized bool
	factory := NewSceneFactory(session, config.DefaultBowConfig(), testFS(), func(opts *scenes.RangeSceneOptions) {
		customized = true
		if opts.Session != session {
			t.Error("options should carry the session")
		}
		if opts.Level == nil || opts.Level.LevelNumber != 2 {
			t.Errorf("options should carry level 2, got %+v", opts.Level)
		}
	})

	scene, err := factory(2)
	if err != nil {
		t.Fatalf("factory(2): %v", err)
	}
	if !customized {
		t.Error("customize callback not called")
	}
	rangeScene, ok := scene.(*scenes.RangeScene)
	if !ok {
		t.Fatalf("expected *scenes.RangeScene, got %T", scene)
	}
	if got := rangeScene.Budget().State().MaxArrows; got != 4 {
		t.Errorf("MaxArrows = %d, want 4", got)
	}
	rangeScene.Dispose()

	if _, err := factory(3); !errors.Is(err, config.ErrNoLevel) {
		t.Errorf("factory(3) error = %v, want ErrNoLevel", err)
	}
}

func TestSceneManagerWithFactory(t *testing.T) {
	session := game.NewSession(nil, game.SessionOptions{})
	sm := game.NewSceneManager()
	sm.SetSceneFactory(NewSceneFactory(session, nil, testFS(), nil))

	if err := sm.LoadLevel(2); err != nil {
		t.Fatalf("LoadLevel(2): %v", err)
	}
	first := sm.GetCurrentScene()

	if err := sm.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if sm.GetCurrentScene() == first {
		t.Error("Reload should create a new scene")
	}
	if sm.CurrentLevel() != 2 {
		t.Errorf("CurrentLevel = %d, want 2", sm.CurrentLevel())
	}

	// 没有 level-3，留在当前关卡
	if err := sm.LoadNext(); err == nil {
		t.Error("LoadNext should fail without level 3")
	}
	if sm.CurrentLevel() != 2 {
		t.Errorf("CurrentLevel after failed LoadNext = %d, want 2", sm.CurrentLevel())
	}
}

func TestFirstLevel(t *testing.T) {
	t.Cleanup(func() { embedded.Init(nil) })

	tests := []struct {
		name string
		fs   fstest.MapFS
		want int
	}{
		{"未初始化", nil, 1},
		{"最小编号", testFS(), 2},
		{"没有关卡文件", fstest.MapFS{"data/bow.yaml": {Data: []byte("")}}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.fs == nil {
				embedded.Init(nil)
			} else {
				embedded.Init(tt.fs)
			}
			if got := firstLevel(); got != tt.want {
				t.Errorf("firstLevel() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestNewApp_NotInitialized(t *testing.T) {
	embedded.Init(nil)
	if _, err := NewApp(Config{Verbose: true}); !errors.Is(err, embedded.ErrNotInitialized) {
		t.Errorf("NewApp error = %v, want ErrNotInitialized", err)
	}
}
