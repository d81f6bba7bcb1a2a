// Package datasettest generates deterministic passenger files for tests.
package datasettest

import (
	"encoding/csv"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

// Header is the canonical passenger CSV header.
var Header = []string{
	"PassengerId", "Survived", "Pclass", "Name", "Sex", "Age",
	"SibSp", "Parch", "Ticket", "Fare", "Cabin", "Embarked",
}

// survivalRate mirrors the class/sex structure of the real manifest:
// women and first class survive far more often than third-class men.
var survivalRate = map[string][4]float64{
	"female": {0, 0.96, 0.92, 0.50},
	"male":   {0, 0.37, 0.16, 0.13},
}

// Records builds n synthetic passenger rows (without header) from a fixed
// seed. About a fifth of ages are missing and the first two Embarked values
// after row 60 are blank, like the original file.
func Records(n int, seed int64) [][]string {
	rng := rand.New(rand.NewSource(seed))
	out := make([][]string, 0, n)
	blankPorts := 0
	for i := 0; i < n; i++ {
		pclass := 3
		switch r := rng.Float64(); {
		case r < 0.24:
			pclass = 1
		case r < 0.45:
			pclass = 2
		}
		sex := "male"
		if rng.Float64() < 0.35 {
			sex = "female"
		}
		age := float64(int((29+rng.NormFloat64()*14)*2)) / 2
		if age < 0.42 {
			age = 0.42
		}
		if age > 80 {
			age = 80
		}
		sibsp := 0
		if r := rng.Float64(); r > 0.68 {
			sibsp = 1 + rng.Intn(3)
		}
		parch := 0
		if r := rng.Float64(); r > 0.76 {
			parch = 1 + rng.Intn(2)
		}
		var fare float64
		switch pclass {
		case 1:
			fare = 30 + rng.Float64()*230
		case 2:
			fare = 10 + rng.Float64()*30
		default:
			fare = 5 + rng.Float64()*20
		}
		port := "S"
		switch r := rng.Float64(); {
		case r < 0.19:
			port = "C"
		case r < 0.28:
			port = "Q"
		}
		if i > 60 && blankPorts < 2 {
			port = ""
			blankPorts++
		}

		p := survivalRate[sex][pclass]
		if age < 10 {
			p += 0.3
		}
		survived := 0
		if rng.Float64() < p {
			survived = 1
		}

		ageCell := strconv.FormatFloat(age, 'f', -1, 64)
		if rng.Float64() < 0.2 {
			ageCell = ""
		}
		out = append(out, []string{
			strconv.Itoa(i + 1),
			strconv.Itoa(survived),
			strconv.Itoa(pclass),
			"Passenger " + strconv.Itoa(i+1),
			sex,
			ageCell,
			strconv.Itoa(sibsp),
			strconv.Itoa(parch),
			"T" + strconv.Itoa(100000+i),
			strconv.FormatFloat(fare, 'f', 4, 64),
			"",
			port,
		})
	}
	return out
}

// WriteCSV writes header + records to dir/name and returns the path.
func WriteCSV(t testing.TB, dir, name string, records [][]string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(Header); err != nil {
		t.Fatalf("write header: %v", err)
	}
	if err := w.WriteAll(records); err != nil {
		t.Fatalf("write records: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close %s: %v", path, err)
	}
	return path
}

// WriteManifest writes an 891-row synthetic manifest into a temp dir.
func WriteManifest(t testing.TB) string {
	t.Helper()
	return WriteCSV(t, t.TempDir(), "titanic.csv", Records(891, 1912))
}
