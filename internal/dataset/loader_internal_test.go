package dataset

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoaderKeysMatchVersions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "titanic.csv")
	body := "PassengerId,Survived,Pclass,Name,Sex,Age,SibSp,Parch,Ticket,Fare,Cabin,Embarked\n" +
		"1,0,3,a,male,22,1,0,t,7.25,,S\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	l := NewLoader()
	for i := 0; i < 3; i++ {
		if _, err := l.Load(path); err != nil {
			t.Fatalf("load %d: %v", i, err)
		}
		later := time.Now().Add(time.Duration(i+1) * time.Second)
		if err := os.Chtimes(path, later, later); err != nil {
			t.Fatalf("chtimes: %v", err)
		}
	}
	if len(l.cache) != 3 {
		t.Fatalf("cache entries = %d, want 3", len(l.cache))
	}
	for key, ds := range l.cache {
		if ds.Version != key {
			t.Fatalf("entry %q holds dataset version %q", key, ds.Version)
		}
	}
}

func TestLoaderRejectsDirectory(t *testing.T) {
	dir := t.TempDir()
	_, err := NewLoader().Load(dir)
	dle, ok := err.(*DataLoadError)
	if !ok || dle.Reason != "path is a directory" {
		t.Fatalf("err = %v, want directory DataLoadError", err)
	}
}
