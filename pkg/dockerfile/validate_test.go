package dockerfile

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"gorm.io/datatypes"

	"github.com/vision-lab/trainforge/dao/model"
)

func TestSplitPin(t *testing.T) {
	Convey("SplitPin", t, func() {
		Convey("bare package name", func() {
			name, version, err := SplitPin("pandas")
			So(err, ShouldBeNil)
			So(name, ShouldEqual, "pandas")
			So(version, ShouldBeEmpty)
		})

		Convey("exact pin", func() {
			name, version, err := SplitPin("opencv-python==4.8.1.78")
			So(err, ShouldBeNil)
			So(name, ShouldEqual, "opencv-python")
			So(version, ShouldEqual, "4.8.1.78")
		})

		Convey("empty version", func() {
			_, _, err := SplitPin("pandas==")
			So(err, ShouldNotBeNil)
		})

		Convey("range constraints are rejected", func() {
			_, _, err := SplitPin("pandas==1.0==2.0")
			So(err, ShouldNotBeNil)
		})

		Convey("invalid name", func() {
			_, _, err := SplitPin("pandas; rm -rf /")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestValidate(t *testing.T) {
	Convey("Validate", t, func() {
		Convey("accepts the canonical recipe", func() {
			So(Validate(classificationRecipe()), ShouldBeNil)
		})

		Convey("rejects empty name", func() {
			recipe := classificationRecipe()
			recipe.Name = ""
			So(Validate(recipe), ShouldNotBeNil)
		})

		Convey("rejects malformed base image", func() {
			recipe := classificationRecipe()
			recipe.BaseImage = "not a valid image!!"
			So(Validate(recipe), ShouldNotBeNil)
		})

		Convey("rejects relative working directory", func() {
			recipe := classificationRecipe()
			recipe.WorkDir = "workspace"
			So(Validate(recipe), ShouldNotBeNil)
		})

		Convey("rejects duplicate pip packages regardless of case", func() {
			recipe := classificationRecipe()
			recipe.PipPackages = datatypes.NewJSONSlice([]string{"pandas", "Pandas==2.0.0"})
			So(Validate(recipe), ShouldNotBeNil)
		})

		Convey("rejects invalid apt package name", func() {
			recipe := classificationRecipe()
			recipe.AptPackages = datatypes.NewJSONSlice([]string{"vim; true"})
			So(Validate(recipe), ShouldNotBeNil)
		})

		Convey("rejects script names with path separators", func() {
			recipe := classificationRecipe()
			recipe.Scripts = datatypes.NewJSONType([]model.ScriptFile{
				{Name: "../evil.py", Content: "x"},
			})
			So(Validate(recipe), ShouldNotBeNil)
		})

		Convey("rejects script names that would smuggle instructions into the Dockerfile", func() {
			recipe := classificationRecipe()
			recipe.EntryScript = "x.py"
			recipe.Scripts = datatypes.NewJSONType([]model.ScriptFile{
				{Name: "x.py\nRUN echo pwned", Content: "x"},
				{Name: "x.py", Content: "x"},
			})
			So(Validate(recipe), ShouldNotBeNil)
		})

		Convey("rejects script names with spaces", func() {
			recipe := classificationRecipe()
			recipe.Scripts = datatypes.NewJSONType([]model.ScriptFile{
				{Name: "my script.py", Content: "x"},
			})
			So(Validate(recipe), ShouldNotBeNil)
		})

		Convey("rejects missing entry script", func() {
			recipe := classificationRecipe()
			recipe.EntryScript = "missing.py"
			So(Validate(recipe), ShouldNotBeNil)
		})

		Convey("rejects empty script content", func() {
			recipe := classificationRecipe()
			recipe.Scripts = datatypes.NewJSONType([]model.ScriptFile{
				{Name: "classification_train.py", Content: ""},
			})
			So(Validate(recipe), ShouldNotBeNil)
		})
	})
}
