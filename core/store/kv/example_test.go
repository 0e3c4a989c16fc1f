package kv

import (
	"fmt"
	"os"
	"path/filepath"
)

func ExampleBucket_Scan() {
	dir, err := os.MkdirTemp(os.TempDir(), "example")
	if err != nil {
		panic("failed to create folder: " + err.Error())
	}

	defer os.RemoveAll(dir)

	db, err := New(filepath.Join(dir, "example.db"))
	if err != nil {
		panic("failed to open db: " + err.Error())
	}

	// Keys of two instances, stored under the instance identifier as the
	// prefix.
	pairs := map[string]string{
		"aa/fruit":  "orange",
		"aa/animal": "marmot",
		"bb/fruit":  "lemon",
	}

	err = db.Update(func(tx WritableTx) error {
		bucket, err := tx.GetBucketOrCreate([]byte("holdings"))
		if err != nil {
			return err
		}

		for key, value := range pairs {
			err = bucket.Set([]byte(key), []byte(value))
			if err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		panic("database write failed: " + err.Error())
	}

	err = db.View(func(tx ReadableTx) error {
		bucket := tx.GetBucket([]byte("holdings"))
		if bucket == nil {
			return nil
		}

		return bucket.Scan([]byte("aa/"), func(key, value []byte) error {
			fmt.Printf("%s = %s\n", key, value)
			return nil
		})
	})
	if err != nil {
		panic("database read failed: " + err.Error())
	}

	// Output: aa/animal = marmot
	// aa/fruit = orange
}
