package rod

// HTML fixtures served by httptest in the session tests.
const (
	BasicHTML = `<!DOCTYPE html>
<html>
<head><title>Test Page</title></head>
<body>
	<h1 data-testid="heading">Hello World</h1>
	<script>console.error("boom from page")</script>
</body>
</html>`

	FormHTML = `<!DOCTYPE html>
<html>
<head><title>Form</title></head>
<body>
	<form id="testForm" onsubmit="return false">
		<input id="username" type="text" name="username" value="prefilled" />
		<input id="agree" type="checkbox" />
		<button id="submit" type="submit" disabled>Submit</button>
		<select id="country">
			<option value="cz">Czechia</option>
			<option value="sk">Slovakia</option>
		</select>
		<ul id="list"><li>a</li><li>b</li><li>c</li></ul>
	</form>
</body>
</html>`

	InteractiveHTML = `<!DOCTYPE html>
<html>
<body>
	<button id="btn">Click Me</button>
	<div id="result"></div>
	<button id="replace">Replace</button>
	<div id="box"><span id="target">old</span></div>
	<script>
		document.getElementById('btn').addEventListener('click', function() {
			document.getElementById('result').textContent = 'Clicked!';
		});
		document.getElementById('replace').addEventListener('click', function() {
			document.getElementById('box').innerHTML = '<span id="target">new</span>';
		});
	</script>
</body>
</html>`
)
