package server

const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>Office Media Server</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 20px; }
        .section { margin-bottom: 20px; }
        textarea, input { width: 300px; }
        button { margin-top: 5px; }
        #output { border: 1px solid #ccc; padding: 10px; min-height: 60px; }
    </style>
</head>
<body>
    <h1>Office Media Server</h1>

    <div class="section">
        <h2>Chat</h2>
        <textarea id="chat-input" placeholder="Type your message..."></textarea><br>
        <button onclick="post('/chat', JSON.stringify({message: val('chat-input')}), 'application/json')">Send</button>
    </div>

    <div class="section">
        <h2>Media</h2>
        <input id="url" placeholder="Media URL">
        <button onclick="post('/download', form({url: val('url')}))">Download</button><br>
        <input id="file-path" placeholder="Local file path">
        <button onclick="post('/play', form({file_path: val('file-path')}))">Play</button>
        <button onclick="post('/stop_playback', '')">Stop</button>
    </div>

    <div class="section">
        <h2>Capture</h2>
        <input id="duration" type="number" value="5"> seconds<br>
        <button onclick="post('/record_audio', form({duration: val('duration')}))">Record Audio</button>
        <button onclick="post('/record_video', form({duration: val('duration')}))">Record Video</button>
        <button onclick="post('/screenshot', '')">Screenshot</button>
    </div>

    <div class="section">
        <h2>Result</h2>
        <pre id="output"></pre>
    </div>

    <script>
        function val(id) { return document.getElementById(id).value; }
        function form(fields) { return new URLSearchParams(fields).toString(); }
        function post(path, body, type) {
            fetch(path, {
                method: 'POST',
                headers: {'Content-Type': type || 'application/x-www-form-urlencoded'},
                body: body
            }).then(r => r.text()).then(t => {
                document.getElementById('output').textContent = t;
            });
        }
    </script>
</body>
</html>
`
